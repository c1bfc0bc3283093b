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

package prompt

import "strings"

// sanitizeInput strips common prompt-injection patterns from
// user-supplied question text before it is embedded in a prompt.
func sanitizeInput(input string) string {
	sanitized := input

	for _, role := range []string{"SYSTEM:", "System:", "system:", "ASSISTANT:", "Assistant:", "assistant:", "USER:", "User:", "user:"} {
		sanitized = strings.ReplaceAll(sanitized, role, "")
	}

	for _, phrase := range []string{
		"Ignore previous instructions", "ignore previous instructions",
		"Ignore all previous", "ignore all previous",
		"Disregard previous", "disregard previous",
	} {
		sanitized = strings.ReplaceAll(sanitized, phrase, "")
	}

	for _, delim := range []string{"---", "===", "***", "```"} {
		sanitized = strings.ReplaceAll(sanitized, delim, "")
	}

	return strings.TrimSpace(sanitized)
}
