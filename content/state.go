package content

// Outcome is how a detail page should be rendered.
type Outcome int

const (
	// OutcomeNotFound: no summary, the page is a 404.
	OutcomeNotFound Outcome = iota
	// OutcomeHeaderOnly: summary found, body unavailable.
	OutcomeHeaderOnly
	// OutcomeFull: summary and body both available.
	OutcomeFull
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHeaderOnly:
		return "header-only"
	case OutcomeFull:
		return "full"
	default:
		return "not-found"
	}
}

// PageState is the settled result of a detail page request.
type PageState struct {
	Summary    Summary
	Found      bool
	Detail     Detail
	ContentErr error
}

// Outcome folds the four meta/content combinations into a render decision.
func (s PageState) Outcome() Outcome {
	switch {
	case !s.Found:
		return OutcomeNotFound
	case s.ContentErr != nil || s.Detail == nil:
		return OutcomeHeaderOnly
	default:
		return OutcomeFull
	}
}
