// Copyright 2026 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package rxv

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/wabarc/helper"
	"github.com/wabarc/logger"
)

// Snapshot paths are short alphanumeric codes under the service root.
var atSnapshotPath = regexp.MustCompile(`^/[0-9a-zA-Z]{3,8}$`)

// ArchiveToday submits pages to archive.today and its mirrors.
type ArchiveToday struct {
	Client    *http.Client
	Endpoint  string
	UserAgent string
}

func (at *ArchiveToday) Name() string { return ServiceArchiveToday }

func (at *ArchiveToday) SetHTTPClient(client *http.Client) { at.Client = client }

func (at *ArchiveToday) SetUserAgent(ua string) { at.UserAgent = ua }

// Submit posts link to the service's submit form and extracts the
// snapshot link from the response.
func (at *ArchiveToday) Submit(ctx context.Context, link string) (Result, error) {
	res := Result{Service: at.Name()}
	if !helper.IsURL(link) {
		res.Err = errors.Wrap(ErrInvalidURL, link)
		return res, res.Err
	}

	endpoint := strings.TrimRight(at.Endpoint, "/")
	// The submit form carries a one-time token. Some mirrors accept
	// submissions without it, so a missing token is not fatal.
	submitid, err := at.submitID(ctx, endpoint)
	if err != nil {
		logger.Debug("[rxv] archive.today: fetch submitid failed: %v", err)
	}

	data := url.Values{"url": {link}, "anyway": {"1"}}
	if submitid != "" {
		data.Set("submitid", submitid)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/submit/", strings.NewReader(data.Encode()))
	if err != nil {
		return at.fail(res, errors.Wrap(err, `build submit request failed`))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", at.UserAgent)

	resp, err := at.httpClient().Do(req)
	if err != nil {
		return at.fail(res, errors.Wrap(err, `submit request failed`))
	}
	defer resp.Body.Close()

	res.Code = resp.StatusCode
	if resp.StatusCode >= http.StatusBadRequest {
		return at.fail(res, errors.Errorf("unexpected status %s", resp.Status))
	}

	dst := at.extract(resp, endpoint)
	if dst == "" {
		return at.fail(res, errors.New("archive link not found in response"))
	}
	res.Dest = dst
	logger.Debug("[rxv] archive.today: %s => %s", link, dst)
	return res, nil
}

func (at *ArchiveToday) fail(res Result, err error) (Result, error) {
	res.Err = &SubmissionError{Service: at.Name(), Code: res.Code, Err: err}
	return res, res.Err
}

// submitID scrapes the submit form token from the service root.
func (at *ArchiveToday) submitID(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/", nil)
	if err != nil {
		return "", errors.Wrap(err, `build form request failed`)
	}
	req.Header.Set("User-Agent", at.UserAgent)

	resp, err := at.httpClient().Do(req)
	if err != nil {
		return "", errors.Wrap(err, `fetch form failed`)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, `parse form failed`)
	}
	id, ok := doc.Find(`input[name="submitid"]`).First().Attr("value")
	if !ok {
		return "", errors.New("submitid not found")
	}
	return id, nil
}

// extract locates the snapshot link in a completed submit exchange. The
// service places it in the Refresh or Location header depending on the
// mirror; when the redirect chain ends on the snapshot itself the final
// request URL is used, and as a last resort the body is scanned for an
// anchor pointing at a snapshot path.
func (at *ArchiveToday) extract(resp *http.Response, endpoint string) string {
	if refresh := resp.Header.Get("Refresh"); refresh != "" {
		if _, uri, ok := strings.Cut(refresh, "url="); ok {
			if dst := strings.TrimSpace(uri); helper.IsURL(dst) {
				return dst
			}
		}
	}
	if loc := resp.Header.Get("Location"); helper.IsURL(loc) {
		return loc
	}
	if final := resp.Request.URL; final != nil && at.isSnapshot(endpoint, final.String()) {
		return final.String()
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		logger.Debug("[rxv] archive.today: parse response failed: %v", err)
		return ""
	}
	var dst string
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if ok && at.isSnapshot(endpoint, href) {
			dst = href
			return false
		}
		return true
	})
	return dst
}

func (at *ArchiveToday) isSnapshot(endpoint, link string) bool {
	if !strings.HasPrefix(link, endpoint+"/") {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return atSnapshotPath.MatchString(u.Path)
}

func (at *ArchiveToday) httpClient() *http.Client {
	if at.Client != nil {
		return at.Client
	}
	return http.DefaultClient
}
