// Package catalog holds the compiled-in directory of government welfare
// schemes and the list of Indian states and union territories.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Scheme is one welfare programme. Eligibility and Benefits are display text
// and are never evaluated.
type Scheme struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Eligibility   string `json:"eligibility"`
	Benefits      string `json:"benefits"`
	Category      string `json:"category"`
	StateSpecific bool   `json:"stateSpecific,omitempty"`
	State         string `json:"state,omitempty"`
}

var schemes = []Scheme{
	{
		ID:          1,
		Name:        "PM Kisan Samman Nidhi",
		Description: "Income support for farmers",
		Eligibility: "All small and marginal farmers",
		Benefits:    "₹6,000 per year in three installments",
		Category:    "Agriculture",
	},
	{
		ID:          2,
		Name:        "Ayushman Bharat",
		Description: "Health insurance scheme",
		Eligibility: "Low income families",
		Benefits:    "Coverage up to ₹5 lakh per family per year",
		Category:    "Health",
	},
	{
		ID:          3,
		Name:        "Pradhan Mantri Awas Yojana",
		Description: "Housing for all",
		Eligibility: "Economically weaker sections, low income groups",
		Benefits:    "Financial assistance for house construction",
		Category:    "Housing",
	},
	{
		ID:          4,
		Name:        "Pradhan Mantri Ujjwala Yojana",
		Description: "LPG connection to women from below poverty line households",
		Eligibility: "Women from BPL households without LPG connection",
		Benefits:    "Free LPG connection with financial assistance",
		Category:    "Energy",
	},
	{
		ID:          5,
		Name:        "Soil Health Card Scheme",
		Description: "Soil testing and nutrient recommendations",
		Eligibility: "All farmers",
		Benefits:    "Free soil health card and personalized recommendations",
		Category:    "Agriculture",
	},
	{
		ID:          6,
		Name:        "Pradhan Mantri Kaushal Vikas Yojana",
		Description: "Skill development training",
		Eligibility: "Youth with basic education",
		Benefits:    "Free skill training and certification",
		Category:    "Skill Development",
	},
	{
		ID:          7,
		Name:        "Beti Bachao Beti Padhao",
		Description: "Promote education for girls",
		Eligibility: "Girl children",
		Benefits:    "Educational incentives and scholarships",
		Category:    "Education",
	},
	{
		ID:          8,
		Name:        "Assistance to Disabled Persons Scheme",
		Description: "Support for assistive devices",
		Eligibility: "Persons with disabilities",
		Benefits:    "Subsidized assistive devices and aids",
		Category:    "Disability Welfare",
	},
	{
		ID:            9,
		Name:          "Kerala Karunya Health Scheme",
		Description:   "Financial assistance for medical treatment",
		Eligibility:   "Kerala residents with low income",
		Benefits:      "Financial support for critical illnesses",
		Category:      "Health",
		StateSpecific: true,
		State:         "Kerala",
	},
	{
		ID:            10,
		Name:          "Tamil Nadu Chief Minister's Health Insurance",
		Description:   "Comprehensive health coverage",
		Eligibility:   "Tamil Nadu residents",
		Benefits:      "Health insurance coverage up to ₹5 lakh",
		Category:      "Health",
		StateSpecific: true,
		State:         "Tamil Nadu",
	},
	{
		ID:            11,
		Name:          "Gujarat Mukhyamantri Yuva Swavalamban Yojana",
		Description:   "Education support for youth",
		Eligibility:   "Students from Gujarat with family income below ₹6 lakh",
		Benefits:      "Financial assistance for higher education",
		Category:      "Education",
		StateSpecific: true,
		State:         "Gujarat",
	},
	{
		ID:          12,
		Name:        "Pradhan Mantri Fasal Bima Yojana",
		Description: "Crop insurance scheme",
		Eligibility: "All farmers including sharecroppers and tenant farmers",
		Benefits:    "Insurance coverage for crop loss due to natural calamities",
		Category:    "Agriculture",
	},
	{
		ID:          13,
		Name:        "National Pension Scheme",
		Description: "Pension scheme for citizens",
		Eligibility: "All Indian citizens between 18-60 years",
		Benefits:    "Retirement income with tax benefits",
		Category:    "Pension",
	},
	{
		ID:          14,
		Name:        "Atal Pension Yojana",
		Description: "Pension scheme focused on unorganized sector",
		Eligibility: "Citizens aged 18-40 years",
		Benefits:    "Fixed pension of ₹1,000 to ₹5,000 per month after 60 years of age",
		Category:    "Pension",
	},
	{
		ID:          15,
		Name:        "Mid-Day Meal Scheme",
		Description: "School meal program",
		Eligibility: "Children studying in government schools",
		Benefits:    "Free nutritious meal during school hours",
		Category:    "Education",
	},
}

var byID = func() map[int]int {
	idx := make(map[int]int, len(schemes))
	for i, s := range schemes {
		idx[s.ID] = i
	}
	return idx
}()

// All returns a copy of every scheme in catalog order.
func All() []Scheme {
	out := make([]Scheme, len(schemes))
	copy(out, schemes)
	return out
}

func ByID(id int) (Scheme, bool) {
	i, ok := byID[id]
	if !ok {
		return Scheme{}, false
	}
	return schemes[i], true
}

// MustByID is for compiled-in references that are known to exist.
func MustByID(id int) Scheme {
	s, ok := ByID(id)
	if !ok {
		panic("catalog: unknown scheme id")
	}
	return s
}

// Categories returns the distinct categories in sorted order.
func Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range schemes {
		if _, ok := seen[s.Category]; ok {
			continue
		}
		seen[s.Category] = struct{}{}
		out = append(out, s.Category)
	}
	sort.Strings(out)
	return out
}

// Search filters the catalog. query matches name, category or description
// case-insensitively; category, when set, must match exactly.
func Search(query, category string) []Scheme {
	needle := fold(strings.TrimSpace(query))

	out := make([]Scheme, 0, len(schemes))
	for _, s := range schemes {
		if category != "" && s.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold(s.Name), needle) &&
			!strings.Contains(fold(s.Category), needle) &&
			!strings.Contains(fold(s.Description), needle) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(s)
}
