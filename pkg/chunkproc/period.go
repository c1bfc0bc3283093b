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

import "regexp"

// UndatedPeriod is the bucket label for passages with no explicit
// year mention, merged into the latest non-empty period by
// PartitionByPeriod.
const UndatedPeriod = "undated"

var yearPattern = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)

// periodBound is one row of the fixed period table (spec.md §4.6):
// a year less than or equal to upTo belongs to label.
type periodBound struct {
	upTo  int
	label string
}

var periodTable = []periodBound{
	{upTo: 1599, label: "<1600"},
	{upTo: 1699, label: "1600-1699"},
	{upTo: 1799, label: "1700-1799"},
	{upTo: 1849, label: "1800-1849"},
	{upTo: 1899, label: "1850-1899"},
	{upTo: 1945, label: "1900-1945"},
	{upTo: 1999, label: "1946-1999"},
}

// periodLabel maps a year to its period-table bucket; years past the
// table's last upper bound fall into "2000+".
func periodLabel(year int) string {
	for _, b := range periodTable {
		if year <= b.upTo {
			return b.label
		}
	}
	return "2000+"
}

// earliestYear returns the smallest explicit four-digit year
// mentioned in text, and whether one was found at all.
func earliestYear(text string) (int, bool) {
	matches := yearPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0, false
	}
	best := 0
	found := false
	for _, m := range matches {
		y := atoiYear(m)
		if !found || y < best {
			best = y
			found = true
		}
	}
	return best, found
}

func atoiYear(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// periodOrder returns the fixed chronological ordering of period
// labels, used to sort partitions before the final merge.
func periodOrder() []string {
	order := make([]string, 0, len(periodTable)+1)
	for _, b := range periodTable {
		order = append(order, b.label)
	}
	return append(order, "2000+")
}
