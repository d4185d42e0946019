package subtitles

// MaxAttempts is the per-cue ceiling on translation backend calls.
const MaxAttempts = 3

// Outcome classifies one translation attempt.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeTransient
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeTransient:
		return "transient"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Attempt is reported to the attempt observer after every backend call.
type Attempt struct {
	Entry   int
	Number  int
	Outcome Outcome
	Err     error
}

// StepKind is the state a cue moves to after an attempt.
type StepKind int

const (
	StepSucceeded StepKind = iota
	StepRetry
	StepFallback
)

// Step is the transition computed by NextStep.
type Step struct {
	Kind StepKind
	// Next is the attempt number to run when Kind is StepRetry.
	Next int
	// WaitUnits is the backoff before Next, in time units.
	WaitUnits int
}

// NextStep is the per-cue retry state machine:
// Pending -> Attempting(1) -> ... -> Attempting(MaxAttempts) -> Fallback,
// leaving for Succeeded on the first good result. A failed attempt n waits
// 2^n units before attempt n+1.
func NextStep(attempt int, failed bool) Step {
	if !failed {
		return Step{Kind: StepSucceeded}
	}
	if attempt >= MaxAttempts {
		return Step{Kind: StepFallback}
	}
	if attempt < 1 {
		attempt = 1
	}
	return Step{Kind: StepRetry, Next: attempt + 1, WaitUnits: 1 << attempt}
}

// Outcome maps the step onto the attempt outcome reported to observers.
func (s Step) Outcome() Outcome {
	switch s.Kind {
	case StepSucceeded:
		return OutcomeSucceeded
	case StepFallback:
		return OutcomeExhausted
	default:
		return OutcomeTransient
	}
}
