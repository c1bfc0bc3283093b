// Copyright 2025 Kadir Pekel
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

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/ledgerlens/pkg/jobstore"
	"github.com/kadirpekel/ledgerlens/pkg/ratelimit"
)

func alwaysReady() bool { return true }

func TestHandleSubmitValidationError(t *testing.T) {
	jobs := jobstore.New(func(context.Context, string) (string, error) { return "ok", nil }, time.Second, nil)
	srv := New(jobs, alwaysReady, nil, nil, nil)

	body, _ := json.Marshal(submitRequest{Question: "hi"})
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSubmitAndStatus(t *testing.T) {
	jobs := jobstore.New(func(_ context.Context, q string) (string, error) { return "answer: " + q, nil }, time.Second, nil)
	srv := New(jobs, alwaysReady, nil, nil, nil)
	router := srv.Routes()

	body, _ := json.Marshal(submitRequest{Question: "What happened to Lehman?"})
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var submitResp submitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitResp))
	assert.NotEmpty(t, submitResp.JobID)
	assert.Equal(t, "pending", submitResp.Status)

	deadline := time.Now().Add(2 * time.Second)
	var statusResp statusResponse
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/query/"+submitResp.JobID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statusResp))
		if statusResp.Status == "complete" {
			break
		}
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, "complete", statusResp.Status)
	assert.Equal(t, "answer: What happened to Lehman?", statusResp.Answer)
}

func TestHandleStatusUnknownJobReturns404(t *testing.T) {
	jobs := jobstore.New(func(context.Context, string) (string, error) { return "ok", nil }, time.Second, nil)
	srv := New(jobs, alwaysReady, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/query/does-not-exist", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSubmitRateLimited(t *testing.T) {
	jobs := jobstore.New(func(context.Context, string) (string, error) { return "ok", nil }, time.Second, nil)
	gate := ratelimit.New(1, 1_000_000)
	_, err := gate.Acquire(context.Background(), 1)
	require.NoError(t, err)
	srv := New(jobs, alwaysReady, gate, nil, nil)

	body, _ := json.Marshal(submitRequest{Question: "What happened to Lehman?"})
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHandleHealthUnavailable(t *testing.T) {
	jobs := jobstore.New(func(context.Context, string) (string, error) { return "ok", nil }, time.Second, nil)
	srv := New(jobs, func() bool { return false }, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
