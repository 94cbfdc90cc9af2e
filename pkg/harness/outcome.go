// Package harness invokes views with generated records and classifies what
// happens: clean returns, controlled rejections and genuine defects. The
// runner couples that classification to an exploration engine so defects
// shrink to minimal reproducers.
package harness

import "errors"

// OutcomeKind classifies a single invocation.
type OutcomeKind string

const (
	OutcomeSuccess           OutcomeKind = "success"
	OutcomeControlledFailure OutcomeKind = "controlled-failure"
	OutcomeUnexpectedFailure OutcomeKind = "unexpected-failure"
)

// Outcome is the classification of one view invocation. Reason is set for
// controlled failures, Cause for unexpected ones.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
	Cause  error
}

// Classifier sorts invocation results into outcomes. Controlled failures
// are recognised strictly by error kind, never by message text.
type Classifier struct {
	controlled func(error) bool
}

// ClassifierOption configures a classifier.
type ClassifierOption func(*Classifier)

// WithControlled replaces the predicate that recognises controlled
// failures. Integrations point this at their own validation error kind.
func WithControlled(predicate func(error) bool) ClassifierOption {
	return func(c *Classifier) {
		if predicate != nil {
			c.controlled = predicate
		}
	}
}

// NewClassifier builds a classifier. The default predicate recognises
// *UserError anywhere in the unwrap chain.
func NewClassifier(options ...ClassifierOption) *Classifier {
	c := &Classifier{
		controlled: func(err error) bool {
			var user *UserError
			return errors.As(err, &user)
		},
	}
	for _, option := range options {
		if option != nil {
			option(c)
		}
	}
	return c
}

// Classify maps a view result to an outcome. A recovered panic is always
// an unexpected failure, even when the panic value wraps a controlled
// error: raising and returning are different contracts.
func (c *Classifier) Classify(err error, recovered *PanicError) Outcome {
	if recovered != nil {
		return Outcome{Kind: OutcomeUnexpectedFailure, Cause: recovered}
	}
	if err == nil {
		return Outcome{Kind: OutcomeSuccess}
	}
	if c.controlled(err) {
		return Outcome{Kind: OutcomeControlledFailure, Reason: err.Error()}
	}
	return Outcome{Kind: OutcomeUnexpectedFailure, Cause: err}
}
