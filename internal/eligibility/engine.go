// Package eligibility maps questionnaire answers to the schemes a citizen
// should look at.
package eligibility

import (
	"github.com/scheme-assist/backend/internal/catalog"
)

// Scheme ids referenced by the rules.
const (
	schemeKisan          = 1
	schemeAyushman       = 2
	schemeAwas           = 3
	schemeKaushal        = 6
	schemeBetiBachao     = 7
	schemeDisabledAssist = 8
	schemeKeralaKarunya  = 9
	schemeTNHealth       = 10
	schemeGujaratYuva    = 11
)

// baseline schemes are returned for every profile.
var baseline = []int{schemeAyushman, schemeAwas}

type rule struct {
	name  string
	match func(p Profile) []int
}

// rules run in declaration order and never depend on each other.
// Age, Category, MaritalStatus and Interests are collected but not read yet.
var rules = []rule{
	{
		name: "farmer",
		match: func(p Profile) []int {
			if p.Occupation == OccupationFarmer {
				return []int{schemeKisan}
			}
			return nil
		},
	},
	{
		name: "low-income-skills",
		match: func(p Profile) []int {
			lowIncome := p.Income == IncomeBelow1L || p.Income == Income1LTo3L
			lowEducation := p.Education == EducationBelow10th || p.Education == Education10thPass
			if lowIncome && lowEducation {
				return []int{schemeKaushal}
			}
			return nil
		},
	},
	{
		name: "girl-child",
		match: func(p Profile) []int {
			if p.Gender == GenderFemale {
				return []int{schemeBetiBachao}
			}
			return nil
		},
	},
	{
		name: "disability",
		match: func(p Profile) []int {
			if p.Disability {
				return []int{schemeDisabledAssist}
			}
			return nil
		},
	},
	{
		name: "state",
		match: func(p Profile) []int {
			switch p.State {
			case "kerala":
				return []int{schemeKeralaKarunya}
			case "tamil-nadu":
				return []int{schemeTNHealth}
			case "gujarat":
				return []int{schemeGujaratYuva}
			}
			return nil
		},
	},
}

// Match is one result with the rule that produced it.
type Match struct {
	catalog.Scheme
	Rule string `json:"rule"`
}

// Evaluate returns the baseline schemes followed by those of every rule the
// profile satisfies. It never fails; an empty profile gets the baseline.
func Evaluate(p Profile) []catalog.Scheme {
	matches := Explain(p)
	out := make([]catalog.Scheme, len(matches))
	for i, m := range matches {
		out[i] = m.Scheme
	}
	return out
}

// Explain is Evaluate with the name of the rule behind each result.
func Explain(p Profile) []Match {
	out := make([]Match, 0, len(baseline)+len(rules))
	for _, id := range baseline {
		out = append(out, Match{Scheme: catalog.MustByID(id), Rule: "baseline"})
	}
	for _, r := range rules {
		for _, id := range r.match(p) {
			out = append(out, Match{Scheme: catalog.MustByID(id), Rule: r.name})
		}
	}
	return out
}
