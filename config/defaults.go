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

package config

// DefaultCategories is the keyword table applied to message purposes.
// Order matters: the first rule whose keyword appears in the purpose wins,
// so "coffee and movie" resolves to Tea/Snacks, not Entertainment. The
// ordering is preserved from the original operations sheet; treat it as
// load-bearing even where it looks accidental.
func DefaultCategories() []CategoryRule {
	return []CategoryRule{
		{Name: "Tea/Snacks", Keywords: []string{"tea", "chai", "coffee", "snacks", "snack", "biscuit", "juice", "samosa"}},
		{Name: "Food", Keywords: []string{"lunch", "dinner", "breakfast", "food", "meal", "parcel", "hotel", "biryani"}},
		{Name: "Groceries", Keywords: []string{"grocery", "groceries", "vegetable", "rice", "milk", "provision"}},
		{Name: "Transport", Keywords: []string{"petrol", "diesel", "fuel", "taxi", "auto", "cab", "bus", "train", "parking", "toll"}},
		{Name: "Office Supplies", Keywords: []string{"stationery", "paper", "pen", "printer", "ink", "cartridge", "notebook"}},
		{Name: "Utilities", Keywords: []string{"electricity", "current bill", "internet", "wifi", "recharge", "water bill", "gas"}},
		{Name: "Maintenance", Keywords: []string{"repair", "service", "cleaning", "plumber", "electrician", "painting"}},
		{Name: "Entertainment", Keywords: []string{"movie", "party", "celebration", "gift", "cake"}},
	}
}

// DefaultVendorCategories is the structurally identical table keyed on
// vendor and item vocabulary coming out of receipt OCR.
func DefaultVendorCategories() []CategoryRule {
	return []CategoryRule{
		{Name: "Tea/Snacks", Keywords: []string{"tea stall", "bakery", "cafe", "coffee day"}},
		{Name: "Food", Keywords: []string{"restaurant", "hotel", "mess", "swiggy", "zomato", "foods"}},
		{Name: "Groceries", Keywords: []string{"supermarket", "mart", "stores", "traders", "big bazaar"}},
		{Name: "Transport", Keywords: []string{"indian oil", "bharat petroleum", "hp petrol", "shell", "uber", "ola", "fastag"}},
		{Name: "Office Supplies", Keywords: []string{"stationers", "xerox", "prints", "office depot"}},
		{Name: "Utilities", Keywords: []string{"tneb", "electricity board", "airtel", "jio", "bsnl", "act fibernet"}},
	}
}

// DefaultRoster is the fixed team roster with alias variants and the phone
// book used to resolve WhatsApp senders to canonical names.
func DefaultRoster() RosterConfig {
	return RosterConfig{
		Members: []string{"Dhanapal", "Veeramani", "Saravanan", "Abbas", "Priya"},
		Aliases: map[string]string{
			"dhana": "Dhanapal",
			"dp":    "Dhanapal",
			"veera": "Veeramani",
			"mani":  "Veeramani",
			"saran": "Saravanan",
			"sara":  "Saravanan",
			"abbas": "Abbas",
			"abu":   "Abbas",
			"priya": "Priya",
		},
		PhoneBook: map[string]string{
			"919876543210": "Dhanapal",
			"919876543211": "Veeramani",
			"919876543212": "Saravanan",
			"919876543213": "Abbas",
			"919876543214": "Priya",
		},
	}
}
