package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scheme-assist/backend/internal/catalog"
	"github.com/scheme-assist/backend/internal/eligibility"
)

func newCheckCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Answer a few questions and list the schemes you may qualify for",
		Long: `check walks through the eligibility questionnaire on the terminal.
State, age, gender, income and occupation are required. Every other
question can be skipped with an empty line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return runCheck(p)
		},
	}
}

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(r io.Reader, w io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(r), out: w}
}

// ask prints label and reads one trimmed line.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// choose repeats the question until the answer is one of options, or empty
// when the question is optional.
func (p *prompter) choose(label string, options []string, optional bool) (string, error) {
	hint := strings.Join(options, "/")
	if optional {
		hint += ", blank to skip"
	}
	for {
		answer, err := p.ask(fmt.Sprintf("%s (%s)", label, hint))
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(answer)
		if answer == "" && optional {
			return "", nil
		}
		for _, o := range options {
			if answer == o {
				return answer, nil
			}
		}
		fmt.Fprintf(p.out, "Please answer one of: %s\n", strings.Join(options, ", "))
	}
}

func runCheck(p *prompter) error {
	q := eligibility.NewQuestionnaire()

	fmt.Fprintln(p.out, "Step 1 of 3: Location")
	for q.Step() == eligibility.StepLocation {
		answer, err := p.ask("State (for example kerala or Tamil Nadu)")
		if err != nil {
			return err
		}
		if st, ok := resolveState(answer); ok {
			q.SetState(st.ID)
		} else if answer != "" {
			fmt.Fprintf(p.out, "Unknown state %q\n", answer)
		}
		if err := q.Next(); err != nil && !errors.Is(err, eligibility.ErrStepIncomplete) {
			return err
		}
	}

	fmt.Fprintln(p.out, "Step 2 of 3: Personal details")
	age, err := askAge(p)
	if err != nil {
		return err
	}
	gender, err := p.choose("Gender", []string{"male", "female", "other"}, false)
	if err != nil {
		return err
	}
	income, err := p.choose("Annual income", []string{"below-1l", "1l-3l", "3l-5l", "5l-10l", "above-10l"}, false)
	if err != nil {
		return err
	}
	occupation, err := p.choose("Occupation", []string{"farmer", "business", "service", "self-employed", "student", "unemployed"}, false)
	if err != nil {
		return err
	}
	q.Update(func(pr *eligibility.Profile) {
		pr.Age = age
		pr.Gender = eligibility.Gender(gender)
		pr.Income = eligibility.IncomeBracket(income)
		pr.Occupation = eligibility.Occupation(occupation)
	})
	if err := q.Next(); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "Step 3 of 3: Additional information")
	education, err := p.choose("Education", []string{"below-10th", "10th-pass", "12th-pass", "graduate", "post-graduate"}, true)
	if err != nil {
		return err
	}
	category, err := p.choose("Category", []string{"general", "obc", "sc", "st"}, true)
	if err != nil {
		return err
	}
	disability, err := p.choose("Person with disability", []string{"y", "n"}, true)
	if err != nil {
		return err
	}
	marital, err := p.choose("Marital status", []string{"single", "married", "widowed", "divorced"}, true)
	if err != nil {
		return err
	}
	q.Update(func(pr *eligibility.Profile) {
		pr.Education = eligibility.EducationLevel(education)
		pr.Category = eligibility.SocialCategory(category)
		pr.Disability = disability == "y"
		pr.MaritalStatus = eligibility.MaritalStatus(marital)
	})
	if err := askInterests(p, q); err != nil {
		return err
	}

	results, err := q.Submit()
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "\nYou may be eligible for %d scheme(s):\n\n", len(results))
	for _, s := range results {
		printScheme(p.out, s)
	}
	return nil
}

func resolveState(answer string) (catalog.State, bool) {
	id := strings.ReplaceAll(strings.ToLower(answer), " ", "-")
	if st, ok := catalog.StateByID(id); ok {
		return st, true
	}
	// A name fragment counts only when it picks out one state.
	if matches := catalog.SearchStates(answer); answer != "" && len(matches) == 1 {
		return matches[0], true
	}
	return catalog.State{}, false
}

func askAge(p *prompter) (int, error) {
	for {
		answer, err := p.ask("Age")
		if err != nil {
			return 0, err
		}
		age, err := strconv.Atoi(answer)
		if err == nil && age > 0 && age <= 150 {
			return age, nil
		}
		fmt.Fprintln(p.out, "Please enter an age between 1 and 150")
	}
}

func askInterests(p *prompter, q *eligibility.Questionnaire) error {
	for {
		answer, err := p.ask(fmt.Sprintf("Interests, comma separated (%s), blank to skip", strings.Join(eligibility.Interests, ", ")))
		if err != nil {
			return err
		}
		if answer == "" {
			return nil
		}

		var tags, unknown []string
		for _, raw := range strings.Split(answer, ",") {
			tag := strings.ToLower(strings.TrimSpace(raw))
			if tag == "" {
				continue
			}
			if !isInterest(tag) {
				unknown = append(unknown, tag)
				continue
			}
			tags = append(tags, tag)
		}
		if len(unknown) > 0 {
			fmt.Fprintf(p.out, "Unknown interest(s): %s\n", strings.Join(unknown, ", "))
			continue
		}

		selected := q.Profile()
		for _, tag := range tags {
			if !selected.HasInterest(tag) {
				q.ToggleInterest(tag)
				selected = q.Profile()
			}
		}
		return nil
	}
}

func isInterest(tag string) bool {
	for _, i := range eligibility.Interests {
		if i == tag {
			return true
		}
	}
	return false
}
