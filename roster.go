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
	"unicode"
)

// NormalizeName resolves free text against the team roster: alias table
// first, then case-insensitive exact or first-name match against the member
// list. The second return value is false when the name is not on the roster.
func (r *Reckon) NormalizeName(raw string) (string, bool) {
	candidate := strings.ToLower(strings.TrimSpace(raw))
	if candidate == "" {
		return "", false
	}
	if member, ok := r.config.Roster.Aliases[candidate]; ok {
		return member, true
	}
	for _, member := range r.config.Roster.Members {
		lowered := strings.ToLower(member)
		if candidate == lowered {
			return member, true
		}
		if fields := strings.Fields(lowered); len(fields) > 0 && fields[0] == candidate {
			return member, true
		}
	}
	return "", false
}

// ResolveSender maps a sender identifier (a phone number or a display name)
// to a canonical roster member.
func (r *Reckon) ResolveSender(sender string) (string, bool) {
	s := strings.TrimSpace(sender)
	if s == "" {
		return "", false
	}
	if digits := keepDigits(s); digits != "" {
		if member, ok := r.config.Roster.PhoneBook[digits]; ok {
			return member, true
		}
	}
	return r.NormalizeName(s)
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// titleCase capitalizes the first letter of every word, lower-casing the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
