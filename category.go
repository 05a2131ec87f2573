/*
Copyright 2025 Reckon Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package reckon

import (
	"strings"

	"github.com/opsdeck/reckon/config"
)

// DefaultCategory is assigned when no keyword table entry matches.
const DefaultCategory = "Other"

// detectCategory scans the ordered rule table and returns the first category
// whose keyword appears as a substring of the lower-cased text. Table order
// decides ties, so it must not be reordered.
func detectCategory(text string, rules []config.CategoryRule) string {
	lowered := strings.ToLower(text)
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				return rule.Name
			}
		}
	}
	return DefaultCategory
}

// DetectCategory classifies a message purpose.
func (r *Reckon) DetectCategory(purpose string) string {
	return detectCategory(purpose, r.config.Categories)
}

// DetectVendorCategory classifies receipt vendor and item text, which uses a
// separate vocabulary from chat purposes (e.g. "indian oil" -> Transport).
func (r *Reckon) DetectVendorCategory(text string) string {
	return detectCategory(text, r.config.VendorCategories)
}
