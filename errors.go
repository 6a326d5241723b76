// Copyright 2026 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package rxv

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidURL reports an input that is not a well-formed absolute URL.
	// It is returned before any request is made.
	ErrInvalidURL = errors.New("invalid url")

	// ErrUnknownService reports a service name or alias missing from the registry.
	ErrUnknownService = errors.New("unknown service")

	// ErrDuplicateService reports a registration under a name or alias already taken.
	ErrDuplicateService = errors.New("duplicate service")
)

// SubmissionError describes a failed exchange with an archival service:
// a network failure, a non-success status, or a response the adapter
// could not locate an archive link in.
type SubmissionError struct {
	Service string
	Code    int // HTTP status of the provider response, 0 if none was received
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%s: submission failed with status %d: %v", e.Service, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: submission failed: %v", e.Service, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
