package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheme-assist/backend/internal/catalog"
)

func ids(list []catalog.Scheme) []int {
	out := make([]int, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func minimalProfile() Profile {
	return Profile{
		State:      "bihar",
		Age:        30,
		Gender:     GenderMale,
		Income:     Income5LTo10L,
		Occupation: OccupationService,
	}
}

func TestEvaluate_BaselineAlwaysFirst(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
	}{
		{name: "empty profile", profile: Profile{}},
		{name: "minimal profile", profile: minimalProfile()},
		{name: "every rule fires", profile: Profile{
			State:      "kerala",
			Gender:     GenderFemale,
			Income:     IncomeBelow1L,
			Education:  EducationBelow10th,
			Occupation: OccupationFarmer,
			Disability: true,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Evaluate(tt.profile))
			require.GreaterOrEqual(t, len(got), 2)
			assert.Equal(t, []int{2, 3}, got[:2])
		})
	}
}

func TestEvaluate_MinimalProfileYieldsBaselineOnly(t *testing.T) {
	assert.Equal(t, []int{2, 3}, ids(Evaluate(minimalProfile())))
	assert.Equal(t, []int{2, 3}, ids(Evaluate(Profile{})))
}

func TestEvaluate_Farmer(t *testing.T) {
	p := minimalProfile()
	assert.NotContains(t, ids(Evaluate(p)), 1)

	p.Occupation = OccupationFarmer
	assert.Contains(t, ids(Evaluate(p)), 1)
}

func TestEvaluate_FemaleIndependentOfOtherFields(t *testing.T) {
	profiles := []Profile{
		{Gender: GenderFemale},
		{Gender: GenderFemale, State: "gujarat", Occupation: OccupationStudent, Income: IncomeAbove10L},
		{Gender: GenderFemale, Disability: true, Education: EducationPostGraduate},
	}
	for _, p := range profiles {
		assert.Contains(t, ids(Evaluate(p)), 7)
	}

	p := minimalProfile()
	p.Gender = GenderOther
	assert.NotContains(t, ids(Evaluate(p)), 7)
}

func TestEvaluate_Disability(t *testing.T) {
	p := minimalProfile()
	assert.NotContains(t, ids(Evaluate(p)), 8)

	p.Disability = true
	assert.Contains(t, ids(Evaluate(p)), 8)
}

func TestEvaluate_SkillsNeedsLowIncomeAndLowEducation(t *testing.T) {
	tests := []struct {
		income    IncomeBracket
		education EducationLevel
		want      bool
	}{
		{IncomeBelow1L, EducationBelow10th, true},
		{Income1LTo3L, Education10thPass, true},
		{Income1LTo3L, Education12thPass, false},
		{Income3LTo5L, EducationBelow10th, false},
		{IncomeBelow1L, "", false},
	}

	for _, tt := range tests {
		p := minimalProfile()
		p.Income = tt.income
		p.Education = tt.education
		got := ids(Evaluate(p))
		if tt.want {
			assert.Contains(t, got, 6, "%s/%s", tt.income, tt.education)
		} else {
			assert.NotContains(t, got, 6, "%s/%s", tt.income, tt.education)
		}
	}
}

func TestEvaluate_StateRecordsAreExclusive(t *testing.T) {
	stateRecords := []int{9, 10, 11}
	tests := []struct {
		state string
		want  []int
	}{
		{state: "kerala", want: []int{9}},
		{state: "tamil-nadu", want: []int{10}},
		{state: "gujarat", want: []int{11}},
		{state: "punjab", want: nil},
		{state: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			p := minimalProfile()
			p.State = tt.state

			var got []int
			for _, id := range ids(Evaluate(p)) {
				for _, s := range stateRecords {
					if id == s {
						got = append(got, id)
					}
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_DeclarationOrder(t *testing.T) {
	p := Profile{
		State:      "tamil-nadu",
		Gender:     GenderFemale,
		Income:     Income1LTo3L,
		Education:  Education10thPass,
		Occupation: OccupationFarmer,
		Disability: true,
	}

	assert.Equal(t, []int{2, 3, 1, 6, 7, 8, 10}, ids(Evaluate(p)))
}

func TestEvaluate_IgnoresUnreadFields(t *testing.T) {
	p := minimalProfile()
	want := ids(Evaluate(p))

	p.Age = 70
	p.Category = CategorySC
	p.MaritalStatus = MaritalWidowed
	p.Interests = []string{"pension", "health"}

	assert.Equal(t, want, ids(Evaluate(p)))
}

func TestExplain_NamesRules(t *testing.T) {
	p := minimalProfile()
	p.Occupation = OccupationFarmer

	got := Explain(p)
	require.Len(t, got, 3)
	assert.Equal(t, "baseline", got[0].Rule)
	assert.Equal(t, "farmer", got[2].Rule)
	assert.Equal(t, "PM Kisan Samman Nidhi", got[2].Name)
}

func TestRanks(t *testing.T) {
	assert.Less(t, IncomeBelow1L.Rank(), IncomeAbove10L.Rank())
	assert.Equal(t, -1, IncomeBracket("").Rank())
	assert.Equal(t, 4, EducationPostGraduate.Rank())
}
