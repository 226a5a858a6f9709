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
package httputil

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/require"
)

func newSequenceServer(t *testing.T, statuses ...int) *httptest.Server {
	t.Helper()
	var i int32
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&i, 1) - 1
		w.WriteHeader(statuses[n])
	}))
}

func TestGetAcceptsDefaultOK(t *testing.T) {
	srv := newSequenceServer(t, 200)
	defer srv.Close()

	resp, err := Get(srv.URL)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

func TestGetAcceptedCodes(t *testing.T) {
	srv := newSequenceServer(t, 499)
	defer srv.Close()

	resp, err := Get(srv.URL, SendAcceptedCodes(200, 499))
	require.NoError(t, err)
	require.Equal(t, 499, resp.StatusCode)
}

func TestGetRejectsUnacceptedStatus(t *testing.T) {
	srv := newSequenceServer(t, 400)
	defer srv.Close()

	_, err := Get(srv.URL)
	require.Error(t, err)
	require.Equal(t, 400, err.(StatusError).Status)
}

func TestSendRetrySucceedsAfterTransientErrors(t *testing.T) {
	srv := newSequenceServer(t, 503, 502, 200)
	defer srv.Close()

	start := time.Now()
	resp, err := Get(
		srv.URL,
		SendRetry(RetryBackoff(backoff.WithMaxRetries(
			backoff.NewConstantBackOff(50*time.Millisecond), 4))))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestSendRetryExhausted(t *testing.T) {
	srv := newSequenceServer(t, 503, 503, 503)
	defer srv.Close()

	_, err := Get(
		srv.URL,
		SendRetry(RetryBackoff(backoff.WithMaxRetries(
			backoff.NewConstantBackOff(10*time.Millisecond), 2))))
	require.Error(t, err)
	require.Equal(t, 503, err.(StatusError).Status)
}

func TestSendRetryWithExtraCodes(t *testing.T) {
	srv := newSequenceServer(t, 400, 503, 404)
	defer srv.Close()

	_, err := Get(
		srv.URL,
		SendRetry(
			RetryBackoff(backoff.WithMaxRetries(backoff.NewConstantBackOff(10*time.Millisecond), 2)),
			RetryCodes(400, 404)))
	require.Error(t, err)
	require.Equal(t, 404, err.(StatusError).Status) // Last code returned.
}

func TestPollAcceptedSucceeds(t *testing.T) {
	srv := newSequenceServer(t, 202, 202, 200)
	defer srv.Close()

	resp, err := PollAccepted(srv.URL, backoff.NewConstantBackOff(10*time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

func TestPollAcceptedFailsOnNonAccepted(t *testing.T) {
	srv := newSequenceServer(t, 202, 202, 404)
	defer srv.Close()

	_, err := PollAccepted(srv.URL, backoff.NewConstantBackOff(10*time.Millisecond))
	require.Error(t, err)
	require.Equal(t, 404, err.(StatusError).Status)
}

func TestGetQueryArg(t *testing.T) {
	r := httptest.NewRequest("GET", "http://localhost/?arg=value", nil)
	require.Equal(t, "value", GetQueryArg(r, "arg", "default"))
}

func TestGetQueryArgUseDefault(t *testing.T) {
	r := httptest.NewRequest("GET", "http://localhost/", nil)
	require.Equal(t, "default", GetQueryArg(r, "arg", "default"))
}
