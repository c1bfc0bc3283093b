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

package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// classify maps whatever the genai SDK returned into one of our typed
// error kinds. The SDK surfaces backend failures as a mix of
// *genai.APIError and transport-level gRPC/HTTP errors, so this
// checks the structured form first and falls back to status codes.
func classify(ctx context.Context, err error) *Error {
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return &Error{Kind: Cancelled, Message: ctx.Err().Error(), Err: err}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatusCode(apiErr.Code, apiErr.Message, err)
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.ResourceExhausted:
			return &Error{Kind: RateLimited, Message: st.Message(), RetryAfter: time.Second, Err: err}
		case codes.Unavailable, codes.DeadlineExceeded, codes.Internal:
			return &Error{Kind: Transient, Message: st.Message(), Err: err}
		case codes.Unauthenticated, codes.PermissionDenied:
			return &Error{Kind: AuthFailure, Message: st.Message(), Err: err}
		case codes.InvalidArgument:
			return &Error{Kind: InvalidRequest, Message: st.Message(), Err: err}
		case codes.Canceled:
			return &Error{Kind: Cancelled, Message: st.Message(), Err: err}
		}
	}

	return &Error{Kind: Transient, Message: err.Error(), Err: err}
}

func classifyStatusCode(code int, message string, err error) *Error {
	switch {
	case code == 429:
		return &Error{Kind: RateLimited, Message: message, RetryAfter: time.Second, Err: err}
	case code >= 500:
		return &Error{Kind: Transient, Message: message, Err: err}
	case code == 401 || code == 403:
		return &Error{Kind: AuthFailure, Message: message, Err: err}
	case code == 400 || code == 422:
		return &Error{Kind: InvalidRequest, Message: message, Err: err}
	case strings.Contains(strings.ToLower(message), "cancel"):
		return &Error{Kind: Cancelled, Message: message, Err: err}
	default:
		return &Error{Kind: Transient, Message: message, Err: err}
	}
}
