// Copyright 2026 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package rxv

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/wabarc/helper"
	"github.com/wabarc/logger"
)

// InternetArchive submits pages to the Wayback Machine through its
// Save Page Now endpoint.
type InternetArchive struct {
	Client    *http.Client
	Endpoint  string
	UserAgent string
}

func (ia *InternetArchive) Name() string { return ServiceInternetArchive }

func (ia *InternetArchive) SetHTTPClient(client *http.Client) { ia.Client = client }

func (ia *InternetArchive) SetUserAgent(ua string) { ia.UserAgent = ua }

// Submit requests a capture of link and reports the snapshot link.
func (ia *InternetArchive) Submit(ctx context.Context, link string) (Result, error) {
	res := Result{Service: ia.Name()}
	if !helper.IsURL(link) {
		res.Err = errors.Wrap(ErrInvalidURL, link)
		return res, res.Err
	}

	endpoint := strings.TrimRight(ia.Endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/save/"+link, nil)
	if err != nil {
		return ia.fail(res, errors.Wrap(err, `build save request failed`))
	}
	req.Header.Set("User-Agent", ia.UserAgent)

	resp, err := ia.httpClient().Do(req)
	if err != nil {
		return ia.fail(res, errors.Wrap(err, `save request failed`))
	}
	defer resp.Body.Close()

	res.Code = resp.StatusCode
	if resp.StatusCode >= http.StatusBadRequest {
		return ia.fail(res, errors.Errorf("unexpected status %s", resp.Status))
	}

	dst := ia.extract(resp, endpoint)
	if dst == "" {
		return ia.fail(res, errors.New("archive link not found in response"))
	}
	res.Dest = dst
	logger.Debug("[rxv] wayback: %s => %s", link, dst)
	return res, nil
}

func (ia *InternetArchive) fail(res Result, err error) (Result, error) {
	res.Err = &SubmissionError{Service: ia.Name(), Code: res.Code, Err: err}
	return res, res.Err
}

// extract locates the snapshot link in a completed save exchange. The
// endpoint announces it in the Content-Location header as a /web/ path;
// older deployments redirect there instead.
func (ia *InternetArchive) extract(resp *http.Response, endpoint string) string {
	if cl := resp.Header.Get("Content-Location"); cl != "" {
		if helper.IsURL(cl) {
			return cl
		}
		return endpoint + cl
	}
	if loc := resp.Header.Get("Location"); helper.IsURL(loc) {
		return loc
	}
	if final := resp.Request.URL; final != nil && strings.HasPrefix(final.Path, "/web/") {
		return final.String()
	}
	return ""
}

func (ia *InternetArchive) httpClient() *http.Client {
	if ia.Client != nil {
		return ia.Client
	}
	return http.DefaultClient
}
