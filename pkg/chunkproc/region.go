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

package chunkproc

import "strings"

// UndatedRegion is the bucket label for passages mentioning no
// gazetteer entry.
const UndatedRegion = "unspecified"

// gazetteer is a fixed country/city name table used by
// PartitionByRegion and by the QueryRouter's geographic-term count
// (spec.md §4.6, §4.7). Representative, not exhaustive.
var gazetteer = []string{
	"vienna", "austria", "frankfurt", "germany", "london", "england",
	"britain", "paris", "france", "new york", "united states", "america",
	"berlin", "hamburg", "amsterdam", "netherlands", "rome", "italy",
	"madrid", "spain", "lisbon", "portugal", "constantinople", "istanbul",
	"ottoman", "cairo", "egypt", "alsace", "switzerland", "zurich", "basel",
}

// regionsMentioned returns every gazetteer entry found in text, in
// gazetteer order, each appearing at most once.
func regionsMentioned(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, place := range gazetteer {
		if strings.Contains(lower, place) {
			found = append(found, place)
		}
	}
	return found
}

// primaryRegion returns the first gazetteer entry mentioned in text,
// used by PartitionByRegion to assign a passage to one bucket.
func primaryRegion(text string) (string, bool) {
	regions := regionsMentioned(text)
	if len(regions) == 0 {
		return "", false
	}
	return regions[0], true
}
