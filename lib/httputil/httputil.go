// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package httputil is a small functional-options wrapper around
// net/http used by the peer announcer to call the tracker: it adds
// accepted-status-code checking and cenkalti/backoff-driven retry on
// top of a plain GET.
package httputil

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
)

// StatusError is returned when a response's status code is not among
// the accepted codes for the request.
type StatusError struct {
	Method string
	URL    string
	Status int
	Header http.Header
}

func (e StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Status)
}

// sendOptions configure Get.
type sendOptions struct {
	transport     http.RoundTripper
	acceptedCodes map[int]bool
	retryBackoff  backoff.BackOff
	retryCodes    map[int]bool
	timeout       time.Duration
}

func defaultSendOptions() *sendOptions {
	return &sendOptions{
		acceptedCodes: map[int]bool{http.StatusOK: true},
		retryCodes: map[int]bool{
			http.StatusInternalServerError: true,
			http.StatusBadGateway:          true,
			http.StatusServiceUnavailable:  true,
			http.StatusGatewayTimeout:      true,
		},
		timeout: 30 * time.Second,
	}
}

// SendOption configures a single call to Get.
type SendOption func(*sendOptions)

// SendTransport overrides the http.RoundTripper used to execute the
// request, primarily for testing against a mocked transport.
func SendTransport(t http.RoundTripper) SendOption {
	return func(o *sendOptions) { o.transport = t }
}

// SendAcceptedCodes sets the status codes that are considered success
// and returned to the caller without error.
func SendAcceptedCodes(codes ...int) SendOption {
	return func(o *sendOptions) {
		o.acceptedCodes = make(map[int]bool, len(codes))
		for _, c := range codes {
			o.acceptedCodes[c] = true
		}
	}
}

// RetryOption configures SendRetry.
type RetryOption func(*sendOptions)

// RetryBackoff sets the backoff.BackOff policy governing retry spacing
// and the maximum number of retries.
func RetryBackoff(b backoff.BackOff) RetryOption {
	return func(o *sendOptions) { o.retryBackoff = b }
}

// RetryCodes adds response status codes, beyond the default 5xx set, to
// be treated as transient and retried.
func RetryCodes(codes ...int) RetryOption {
	return func(o *sendOptions) {
		if o.retryCodes == nil {
			o.retryCodes = make(map[int]bool, len(codes))
		}
		for _, c := range codes {
			o.retryCodes[c] = true
		}
	}
}

// SendRetry enables retrying the request on transport errors or on a
// retryable status code, per opts.
func SendRetry(opts ...RetryOption) SendOption {
	return func(o *sendOptions) {
		for _, opt := range opts {
			opt(o)
		}
		if o.retryBackoff == nil {
			o.retryBackoff = backoff.NewExponentialBackOff()
		}
	}
}

// Get issues a GET request to url, applying opts. Returns a StatusError
// if the final response status is not among the accepted codes.
func Get(url string, opts ...SendOption) (*http.Response, error) {
	o := defaultSendOptions()
	for _, opt := range opts {
		opt(o)
	}

	client := &http.Client{
		Transport: o.transport,
		Timeout:   o.timeout,
	}

	var resp *http.Response
	op := func() error {
		r, err := client.Get(url)
		if err != nil {
			return err
		}
		if o.acceptedCodes[r.StatusCode] {
			resp = r
			return nil
		}
		if o.retryBackoff != nil && o.retryCodes[r.StatusCode] {
			resp = r
			return StatusError{Method: "GET", URL: url, Status: r.StatusCode, Header: r.Header}
		}
		// Non-retryable, non-accepted status: fail immediately.
		return backoff.Permanent(StatusError{
			Method: "GET", URL: url, Status: r.StatusCode, Header: r.Header,
		})
	}

	var err error
	if o.retryBackoff != nil {
		err = backoff.Retry(op, o.retryBackoff)
	} else {
		err = op()
	}
	if err != nil {
		if perr, ok := err.(*backoff.PermanentError); ok {
			return resp, perr.Err
		}
		return resp, err
	}
	return resp, nil
}

// PollAccepted repeatedly GETs url until the response is no longer
// StatusAccepted, using b to space out polls.
func PollAccepted(url string, b backoff.BackOff, opts ...SendOption) (*http.Response, error) {
	opts = append(opts, SendRetry(RetryBackoff(b), RetryCodes(http.StatusAccepted)))
	return Get(url, opts...)
}

// GetQueryArg returns the value of query parameter arg from r, or
// defaultVal if it was not set.
func GetQueryArg(r *http.Request, arg, defaultVal string) string {
	v := r.URL.Query().Get(arg)
	if v == "" {
		return defaultVal
	}
	return v
}
