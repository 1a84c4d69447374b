package metrics

import "github.com/AndreyAkinshin/buildall/internal/unit"

// LabelFor maps an outcome to its counter label.
func LabelFor(o unit.Outcome) OutcomeLabel {
	if o.Success {
		return OutcomeSuccess
	}
	switch o.Kind {
	case unit.FailureTimeout:
		return OutcomeTimeout
	case unit.FailureInvocation:
		return OutcomeInvocation
	case unit.FailureSkipped:
		return OutcomeSkipped
	default:
		return OutcomeFailed
	}
}
