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

package review

import "strings"

// institutionLexicon and personLexicon are a representative,
// corpus-specific seed list: spec.md §8's open questions say the
// institution/person list is corpus-specific and leaves the exact
// membership to the implementer, fixing only the check itself.
var institutionLexicon = []string{
	"Rothschild",
	"Rothschild & Sons",
	"Baring Brothers",
	"Hohenemser",
	"Creditanstalt",
	"J.P. Morgan",
	"Warburg",
	"Schroder",
	"Lazard",
	"Mendelssohn",
}

var personLexicon = []string{
	"Nathan Rothschild",
	"James Rothschild",
	"Junius Morgan",
	"Siegmund Warburg",
}

// italicized reports whether name appears in text wrapped in the
// italic marker convention (*Name*).
func italicized(text, name string) bool {
	marked := "*" + name + "*"
	return strings.Contains(text, marked)
}

// bareOccurrence reports whether name appears in text outside of its
// italic-marked form.
func bareOccurrence(text, name string) bool {
	if !strings.Contains(text, name) {
		return false
	}
	if !strings.Contains(text, "*"+name+"*") {
		return true
	}
	// name appears at least once italicized; check for an additional
	// bare occurrence by stripping every italicized instance first.
	stripped := strings.ReplaceAll(text, "*"+name+"*", "")
	return strings.Contains(stripped, name)
}

// typographyViolations checks that institutions appear in italics and
// persons do not (spec.md §4.12).
func typographyViolations(text string) []string {
	var violations []string
	for _, inst := range institutionLexicon {
		if bareOccurrence(text, inst) {
			violations = append(violations, "institution \""+inst+"\" must be italicized")
		}
	}
	for _, person := range personLexicon {
		if italicized(text, person) {
			violations = append(violations, "person \""+person+"\" must not be italicized")
		}
	}
	return violations
}
