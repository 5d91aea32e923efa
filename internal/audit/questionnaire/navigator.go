// internal/audit/questionnaire/navigator.go
package questionnaire

import (
	"errors"
	"fmt"

	"promptprofit-audit/internal/models"
)

var (
	ErrAtFirstStep  = errors.New("already at the first step")
	ErrAtLastStep   = errors.New("already at the last step")
	ErrUnknownField = errors.New("unknown field")
)

// Navigator is the wizard state for one respondent: the current step and
// the answers given so far. It is not safe for concurrent use.
type Navigator struct {
	cat     *Catalogue
	index   int
	answers models.Answers
}

func NewNavigator(cat *Catalogue) *Navigator {
	return &Navigator{cat: cat, answers: make(models.Answers)}
}

func (n *Navigator) Current() Step { return n.cat.Steps[n.index] }

func (n *Navigator) Index() int { return n.index }

func (n *Navigator) Len() int { return len(n.cat.Steps) }

// Progress is the completion percentage shown by the progress bar.
func (n *Navigator) Progress() float64 {
	return float64(n.index+1) / float64(len(n.cat.Steps)) * 100
}

func (n *Navigator) CanGoBack() bool { return n.index > 0 }

func (n *Navigator) IsLast() bool { return n.index == len(n.cat.Steps)-1 }

// Submittable reports whether the submit action is offered.
func (n *Navigator) Submittable() bool { return n.IsLast() }

func (n *Navigator) Next() error {
	if n.IsLast() {
		return ErrAtLastStep
	}
	n.index++
	return nil
}

func (n *Navigator) Back() error {
	if !n.CanGoBack() {
		return ErrAtFirstStep
	}
	n.index--
	return nil
}

// Set records an answer for any catalogue field, on any step.
func (n *Navigator) Set(key, value string) error {
	if _, ok := n.cat.Field(key); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	n.answers[key] = value
	return nil
}

// Value returns the current answer for key.
func (n *Navigator) Value(key string) string {
	return n.answers.Get(key)
}

// Answers returns a copy of the answers collected so far.
func (n *Navigator) Answers() models.Answers {
	return n.answers.Clone()
}
