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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	r := newTestReckon(t)

	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"Dhana", "Dhanapal", true},
		{"dhana", "Dhanapal", true},
		{"DHANAPAL", "Dhanapal", true},
		{"veera", "Veeramani", true},
		{"  saran  ", "Saravanan", true},
		{"Ramesh", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		got, ok := r.NormalizeName(tt.raw)
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestResolveSenderByPhone(t *testing.T) {
	r := newTestReckon(t)

	got, ok := r.ResolveSender("919876543212")
	assert.True(t, ok)
	assert.Equal(t, "Saravanan", got)

	// WhatsApp JIDs carry formatting; only digits should matter.
	got, ok = r.ResolveSender("+91 98765 43212")
	assert.True(t, ok)
	assert.Equal(t, "Saravanan", got)

	_, ok = r.ResolveSender("910000000000")
	assert.False(t, ok)
}

func TestResolveSenderByName(t *testing.T) {
	r := newTestReckon(t)

	got, ok := r.ResolveSender("priya")
	assert.True(t, ok)
	assert.Equal(t, "Priya", got)

	_, ok = r.ResolveSender("")
	assert.False(t, ok)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Office Chairs", titleCase("office chairs"))
	assert.Equal(t, "Tea", titleCase("TEA"))
	assert.Equal(t, "", titleCase("   "))
}
