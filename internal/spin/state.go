package spin

// State is a step of the spin lifecycle
type State int

const (
	StateIdle State = iota
	StateSpinning
	StateEvaluating
	StatePresenting
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpinning:
		return "spinning"
	case StateEvaluating:
		return "evaluating"
	case StatePresenting:
		return "presenting"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}
