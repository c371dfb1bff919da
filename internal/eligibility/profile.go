package eligibility

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// IncomeBracket values are ordered from lowest to highest.
type IncomeBracket string

const (
	IncomeBelow1L  IncomeBracket = "below-1l"
	Income1LTo3L   IncomeBracket = "1l-3l"
	Income3LTo5L   IncomeBracket = "3l-5l"
	Income5LTo10L  IncomeBracket = "5l-10l"
	IncomeAbove10L IncomeBracket = "above-10l"
)

var incomeOrder = []IncomeBracket{IncomeBelow1L, Income1LTo3L, Income3LTo5L, Income5LTo10L, IncomeAbove10L}

// Rank is the bracket's position from lowest, or -1 when unset or unknown.
func (b IncomeBracket) Rank() int {
	return indexOf(incomeOrder, b)
}

type Occupation string

const (
	OccupationFarmer       Occupation = "farmer"
	OccupationBusiness     Occupation = "business"
	OccupationService      Occupation = "service"
	OccupationSelfEmployed Occupation = "self-employed"
	OccupationStudent      Occupation = "student"
	OccupationUnemployed   Occupation = "unemployed"
)

// EducationLevel values are ordered from lowest to highest.
type EducationLevel string

const (
	EducationBelow10th    EducationLevel = "below-10th"
	Education10thPass     EducationLevel = "10th-pass"
	Education12thPass     EducationLevel = "12th-pass"
	EducationGraduate     EducationLevel = "graduate"
	EducationPostGraduate EducationLevel = "post-graduate"
)

var educationOrder = []EducationLevel{EducationBelow10th, Education10thPass, Education12thPass, EducationGraduate, EducationPostGraduate}

func (e EducationLevel) Rank() int {
	return indexOf(educationOrder, e)
}

// SocialCategory is the reservation category.
type SocialCategory string

const (
	CategoryGeneral SocialCategory = "general"
	CategoryOBC     SocialCategory = "obc"
	CategorySC      SocialCategory = "sc"
	CategoryST      SocialCategory = "st"
)

type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalWidowed  MaritalStatus = "widowed"
	MaritalDivorced MaritalStatus = "divorced"
)

// Interest tags offered on the last questionnaire step.
var Interests = []string{
	"agriculture",
	"education",
	"health",
	"housing",
	"skill-development",
	"financial-aid",
	"family-welfare",
	"pension",
}

// Profile is the set of questionnaire answers. It lives only as long as the
// questionnaire session that collects it.
type Profile struct {
	State         string         `json:"state"`
	Age           int            `json:"age"`
	Gender        Gender         `json:"gender"`
	Income        IncomeBracket  `json:"income"`
	Occupation    Occupation     `json:"occupation"`
	Education     EducationLevel `json:"education,omitempty"`
	Category      SocialCategory `json:"category,omitempty"`
	Disability    bool           `json:"disability"`
	MaritalStatus MaritalStatus  `json:"maritalStatus,omitempty"`
	Interests     []string       `json:"interests,omitempty"`
}

// HasInterest reports whether tag was selected.
func (p Profile) HasInterest(tag string) bool {
	for _, i := range p.Interests {
		if i == tag {
			return true
		}
	}
	return false
}

func indexOf[T comparable](list []T, v T) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}
