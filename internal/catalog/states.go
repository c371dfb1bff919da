package catalog

import "strings"

type State struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

var states = []State{
	{ID: "andhra-pradesh", Name: "Andhra Pradesh", Code: "AP"},
	{ID: "arunachal-pradesh", Name: "Arunachal Pradesh", Code: "AR"},
	{ID: "assam", Name: "Assam", Code: "AS"},
	{ID: "bihar", Name: "Bihar", Code: "BR"},
	{ID: "chhattisgarh", Name: "Chhattisgarh", Code: "CG"},
	{ID: "goa", Name: "Goa", Code: "GA"},
	{ID: "gujarat", Name: "Gujarat", Code: "GJ"},
	{ID: "haryana", Name: "Haryana", Code: "HR"},
	{ID: "himachal-pradesh", Name: "Himachal Pradesh", Code: "HP"},
	{ID: "jharkhand", Name: "Jharkhand", Code: "JH"},
	{ID: "karnataka", Name: "Karnataka", Code: "KA"},
	{ID: "kerala", Name: "Kerala", Code: "KL"},
	{ID: "madhya-pradesh", Name: "Madhya Pradesh", Code: "MP"},
	{ID: "maharashtra", Name: "Maharashtra", Code: "MH"},
	{ID: "manipur", Name: "Manipur", Code: "MN"},
	{ID: "meghalaya", Name: "Meghalaya", Code: "ML"},
	{ID: "mizoram", Name: "Mizoram", Code: "MZ"},
	{ID: "nagaland", Name: "Nagaland", Code: "NL"},
	{ID: "odisha", Name: "Odisha", Code: "OD"},
	{ID: "punjab", Name: "Punjab", Code: "PB"},
	{ID: "rajasthan", Name: "Rajasthan", Code: "RJ"},
	{ID: "sikkim", Name: "Sikkim", Code: "SK"},
	{ID: "tamil-nadu", Name: "Tamil Nadu", Code: "TN"},
	{ID: "telangana", Name: "Telangana", Code: "TG"},
	{ID: "tripura", Name: "Tripura", Code: "TR"},
	{ID: "uttar-pradesh", Name: "Uttar Pradesh", Code: "UP"},
	{ID: "uttarakhand", Name: "Uttarakhand", Code: "UK"},
	{ID: "west-bengal", Name: "West Bengal", Code: "WB"},
	{ID: "delhi", Name: "Delhi", Code: "DL"},
}

func States() []State {
	out := make([]State, len(states))
	copy(out, states)
	return out
}

func StateByID(id string) (State, bool) {
	for _, s := range states {
		if s.ID == id {
			return s, true
		}
	}
	return State{}, false
}

// SearchStates filters states by a case-insensitive name substring.
func SearchStates(query string) []State {
	needle := fold(strings.TrimSpace(query))
	if needle == "" {
		return States()
	}
	var out []State
	for _, s := range states {
		if strings.Contains(fold(s.Name), needle) {
			out = append(out, s)
		}
	}
	return out
}
