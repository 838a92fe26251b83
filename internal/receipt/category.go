package receipt

import "strings"

// Canonical expense categories. Every stored receipt uses only these labels;
// anything the model emits outside this vocabulary maps to "Other".
var CanonicalCategories = []string{
	"Food & Restaurants",
	"Groceries",
	"Clothing & Shoes",
	"Electronics",
	"Entertainment",
	"Home & Garden",
	"Health & Pharmacy",
	"Beauty & Personal Care",
	"Transportation",
	"Gas & Fuel",
	"Travel",
	"Utilities",
	"Rent & Mortgage",
	"Insurance",
	"Education",
	"Office Supplies",
	"Pets",
	"Gifts & Donations",
	"Subscriptions & Memberships",
	"Sports & Outdoors",
	"Kids & Baby",
	"Other",
}

// Machine-enum spellings as the extraction schema declares them.
var categoryEnumNames = map[string]string{
	"FoodAndRestaurants":          "Food & Restaurants",
	"Groceries":                   "Groceries",
	"ClothingAndShoes":            "Clothing & Shoes",
	"Electronics":                 "Electronics",
	"Entertainment":               "Entertainment",
	"HomeAndGarden":               "Home & Garden",
	"HealthAndPharmacy":           "Health & Pharmacy",
	"BeautyAndPersonalCare":       "Beauty & Personal Care",
	"Transportation":              "Transportation",
	"GasAndFuel":                  "Gas & Fuel",
	"Travel":                      "Travel",
	"Utilities":                   "Utilities",
	"RentAndMortgage":             "Rent & Mortgage",
	"Insurance":                   "Insurance",
	"Education":                   "Education",
	"OfficeSupplies":              "Office Supplies",
	"Pets":                        "Pets",
	"GiftsAndDonations":           "Gifts & Donations",
	"SubscriptionsAndMemberships": "Subscriptions & Memberships",
	"SportsAndOutdoors":           "Sports & Outdoors",
	"KidsAndBaby":                 "Kids & Baby",
	"Other":                       "Other",
}

// Known aliases from earlier taxonomies and common model drift.
var categoryAliases = map[string]string{
	"Food/restaurants":     "Food & Restaurants",
	"food and restaurants": "Food & Restaurants",
	"restaurants":          "Food & Restaurants",
	"restaurant":           "Food & Restaurants",
	"dining":               "Food & Restaurants",
	"fast food":            "Food & Restaurants",
	"grocery":              "Groceries",
	"supermarket":          "Groceries",
	"clothes":              "Clothing & Shoes",
	"clothing":             "Clothing & Shoes",
	"apparel":              "Clothing & Shoes",
	"shoes":                "Clothing & Shoes",
	"tech":                 "Electronics",
	"gadgets":              "Electronics",
	"movies":               "Entertainment",
	"streaming":            "Subscriptions & Memberships",
	"subscriptions":        "Subscriptions & Memberships",
	"home improvement":     "Home & Garden",
	"hardware":             "Home & Garden",
	"furniture":            "Home & Garden",
	"pharmacy":             "Health & Pharmacy",
	"medical":              "Health & Pharmacy",
	"health":               "Health & Pharmacy",
	"cosmetics":            "Beauty & Personal Care",
	"personal care":        "Beauty & Personal Care",
	"transit":              "Transportation",
	"parking":              "Transportation",
	"rideshare":            "Transportation",
	"gas":                  "Gas & Fuel",
	"fuel":                 "Gas & Fuel",
	"gasoline":             "Gas & Fuel",
	"hotel":                "Travel",
	"flights":              "Travel",
	"airfare":              "Travel",
	"electricity":          "Utilities",
	"water":                "Utilities",
	"internet":             "Utilities",
	"phone":                "Utilities",
	"rent":                 "Rent & Mortgage",
	"mortgage":             "Rent & Mortgage",
	"tuition":              "Education",
	"books":                "Education",
	"office":               "Office Supplies",
	"stationery":           "Office Supplies",
	"pet":                  "Pets",
	"pet supplies":         "Pets",
	"gifts":                "Gifts & Donations",
	"charity":              "Gifts & Donations",
	"donations":            "Gifts & Donations",
	"sporting goods":       "Sports & Outdoors",
	"outdoors":             "Sports & Outdoors",
	"fitness":              "Sports & Outdoors",
	"baby":                 "Kids & Baby",
	"toys":                 "Kids & Baby",
	"misc":                 "Other",
	"miscellaneous":        "Other",
}

// categoryLookup maps folded spellings (canonical labels, enum names, aliases)
// to canonical labels.
var categoryLookup = buildCategoryLookup()

func buildCategoryLookup() map[string]string {
	lookup := make(map[string]string)
	for _, label := range CanonicalCategories {
		lookup[foldCategory(label)] = label
	}
	for enum, label := range categoryEnumNames {
		lookup[foldCategory(enum)] = label
	}
	for alias, label := range categoryAliases {
		lookup[foldCategory(alias)] = label
	}
	return lookup
}

// foldCategory lowercases and collapses internal whitespace so spelling and
// spacing variants hit the same table entry.
func foldCategory(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// NormalizeCategories rewrites raw category strings into the canonical
// vocabulary. Blank entries are skipped, unknown entries become "Other", and
// duplicates are dropped with first-seen order preserved.
func NormalizeCategories(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, entry := range raw {
		folded := foldCategory(entry)
		if folded == "" {
			continue
		}
		label, ok := categoryLookup[folded]
		if !ok {
			label = "Other"
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// ParseCategory resolves a single user-supplied category string to its
// canonical label. Unknown strings are rejected rather than mapped to "Other"
// so a typo in a filter does not silently match everything uncategorized.
func ParseCategory(s string) (string, bool) {
	label, ok := categoryLookup[foldCategory(s)]
	return label, ok
}
