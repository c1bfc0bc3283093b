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

// ruleBlock is the analytical-framework rule text embedded in every
// narrative and merge prompt (spec.md §4.8). It is centralized here
// so PeriodProcessor, GeographicProcessor, and the single-pass path
// all enforce identical rules.
const ruleBlock = `Follow these rules without exception:
1. Present events in strict chronological order.
2. Write every sentence with the historical subject as the active, grammatical subject.
3. Set institution names in italics (*Institution Name*); set person names in plain text.
4. Maintain the sociological and panic-contagion analytical framework in every section.
5. State only facts supported by the provided passages. Never invent names, dates, or figures.
6. Never use the suffix "& Co." or "& Company" after a firm name; use the full firm name instead.
7. End with 3 to 5 follow-up questions whose answers the draft above actually supports.`

// RuleBlock returns the analytical-framework rule text shared by
// every prompt kind.
func RuleBlock() string {
	return ruleBlock
}
