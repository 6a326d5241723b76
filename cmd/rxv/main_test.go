// Copyright 2026 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArchiveTodayServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><input name="submitid" value="t0k3n"/></body></html>`)
	})
	mux.HandleFunc("/submit/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Refresh", "0;url=http://"+r.Host+"/aBc12")
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newWaybackServer(t *testing.T, code int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code >= http.StatusBadRequest {
			http.Error(w, http.StatusText(code), code)
			return
		}
		w.Header().Set("Content-Location", "/web/20260823000000/https://example.com/")
	}))
	t.Cleanup(ts.Close)
	return ts
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunBothServices(t *testing.T) {
	at := newArchiveTodayServer(t)
	ia := newWaybackServer(t, http.StatusOK)
	t.Setenv("RXV_ARCHIVETODAY_ENDPOINT", at.URL)
	t.Setenv("RXV_INTERNETARCHIVE_ENDPOINT", ia.URL)

	out, err := execute(t, "", "https://example.com", "--at", "--ia")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "https://example.com => "+at.URL+"/aBc12", lines[0])
	assert.Equal(t, "https://example.com => "+ia.URL+"/web/20260823000000/https://example.com/", lines[1])
}

func TestRunSubmissionFailure(t *testing.T) {
	ia := newWaybackServer(t, http.StatusServiceUnavailable)
	t.Setenv("RXV_INTERNETARCHIVE_ENDPOINT", ia.URL)

	out, err := execute(t, "", "https://example.com", "--ia")
	require.Error(t, err)
	assert.Contains(t, out, "https://example.com => internetarchive:")
	assert.Contains(t, out, "status 503")
	assert.NotContains(t, out, "internetarchive: internetarchive:")
}

func TestRunNoServiceFlag(t *testing.T) {
	_, err := execute(t, "", "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least one service flag")
}

func TestRunReadsStdin(t *testing.T) {
	ia := newWaybackServer(t, http.StatusOK)
	t.Setenv("RXV_INTERNETARCHIVE_ENDPOINT", ia.URL)

	out, err := execute(t, "https://example.com\n\nhttps://example.org\n", "--ia")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
}

// brokenReader yields its buffered content, then fails.
type brokenReader struct {
	data io.Reader
	err  error
}

func (br *brokenReader) Read(p []byte) (int, error) {
	n, err := br.data.Read(p)
	if err == io.EOF {
		return n, br.err
	}
	return n, err
}

func TestRunStdinReadError(t *testing.T) {
	ia := newWaybackServer(t, http.StatusOK)
	t.Setenv("RXV_INTERNETARCHIVE_ENDPOINT", ia.URL)

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(&brokenReader{
		data: strings.NewReader("https://example.com\n"),
		err:  errors.New("read failed"),
	})
	cmd.SetArgs([]string{"--ia"})
	require.NoError(t, cmd.Execute())

	// Lines read before the failure are still submitted.
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestRunNoURLs(t *testing.T) {
	_, err := execute(t, "", "--ia")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no URLs provided")
}

func TestRunFiltersArchiveHosts(t *testing.T) {
	ia := newWaybackServer(t, http.StatusOK)
	t.Setenv("RXV_INTERNETARCHIVE_ENDPOINT", ia.URL)

	out, err := execute(t, "", "https://web.archive.org/web/2/https://example.com", "--ia")
	require.NoError(t, err)
	assert.Contains(t, out, "no URLs left to archive")
}
