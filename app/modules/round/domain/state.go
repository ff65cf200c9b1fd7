package rounddomain

// State is the lifecycle state of a round session.
type State string

const (
	StateNotStarted State = "not_started"
	StateActive     State = "active"
	StateCompleting State = "completing"
	StateCompleted  State = "completed"
	StateAbandoned  State = "abandoned"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAbandoned
}
