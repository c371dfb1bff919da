package eligibility

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scheme-assist/backend/internal/catalog"
)

// Questionnaire steps. StepResults is reached only through Submit.
const (
	StepLocation   = 1
	StepPersonal   = 2
	StepAdditional = 3
	StepResults    = 4
)

var ErrStepIncomplete = errors.New("questionnaire step incomplete")

// IncompleteError lists the fields that keep a step from advancing.
type IncompleteError struct {
	Step    int
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("step %d incomplete: missing %s", e.Step, strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Unwrap() error { return ErrStepIncomplete }

// RequiredFields returns the fields of step that p leaves empty.
func RequiredFields(step int, p Profile) []string {
	var missing []string
	switch step {
	case StepLocation:
		if p.State == "" {
			missing = append(missing, "state")
		}
	case StepPersonal:
		if p.Age <= 0 {
			missing = append(missing, "age")
		}
		if p.Gender == "" {
			missing = append(missing, "gender")
		}
		if p.Income == "" {
			missing = append(missing, "income")
		}
		if p.Occupation == "" {
			missing = append(missing, "occupation")
		}
	}
	return missing
}

func CanAdvance(step int, p Profile) bool {
	return len(RequiredFields(step, p)) == 0
}

// Complete checks every step that gates the results.
func Complete(p Profile) error {
	for _, step := range []int{StepLocation, StepPersonal} {
		if missing := RequiredFields(step, p); len(missing) > 0 {
			return &IncompleteError{Step: step, Missing: missing}
		}
	}
	return nil
}

// Questionnaire walks one user through the steps. It is not safe for
// concurrent use; each session owns its own.
type Questionnaire struct {
	step    int
	profile Profile
	results []catalog.Scheme
}

func NewQuestionnaire() *Questionnaire {
	return &Questionnaire{step: StepLocation}
}

func (q *Questionnaire) Step() int { return q.step }

// Profile returns a copy of the answers so far.
func (q *Questionnaire) Profile() Profile {
	p := q.profile
	p.Interests = append([]string(nil), q.profile.Interests...)
	return p
}

func (q *Questionnaire) SetState(stateID string) {
	q.profile.State = stateID
}

// Update applies fn to the profile. Interests should go through
// ToggleInterest to keep them a set.
func (q *Questionnaire) Update(fn func(p *Profile)) {
	fn(&q.profile)
}

// ToggleInterest selects tag, or deselects it when already selected.
func (q *Questionnaire) ToggleInterest(tag string) {
	for i, existing := range q.profile.Interests {
		if existing == tag {
			q.profile.Interests = append(q.profile.Interests[:i:i], q.profile.Interests[i+1:]...)
			return
		}
	}
	q.profile.Interests = append(q.profile.Interests, tag)
}

// Next advances to the following input step.
func (q *Questionnaire) Next() error {
	if q.step >= StepAdditional {
		return nil
	}
	if missing := RequiredFields(q.step, q.profile); len(missing) > 0 {
		return &IncompleteError{Step: q.step, Missing: missing}
	}
	q.step++
	return nil
}

func (q *Questionnaire) Back() {
	if q.step > StepLocation {
		q.step--
	}
}

// Submit evaluates the profile and moves to the results step.
func (q *Questionnaire) Submit() ([]catalog.Scheme, error) {
	if err := Complete(q.profile); err != nil {
		return nil, err
	}
	q.results = Evaluate(q.profile)
	q.step = StepResults
	return q.Results(), nil
}

func (q *Questionnaire) Results() []catalog.Scheme {
	return append([]catalog.Scheme(nil), q.results...)
}

// Reset discards every answer and returns to the first step.
func (q *Questionnaire) Reset() {
	*q = Questionnaire{step: StepLocation}
}
