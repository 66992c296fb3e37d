package dynamodblocal

// State represents the lifecycle state of a managed instance
type State int

const (
	// StateDown indicates no process handle exists
	StateDown State = iota
	// StatePending indicates a handle exists but the instance has not been
	// confirmed ready. Reserved for a readiness probe; the current
	// algorithm never produces it.
	StatePending
	// StateUp indicates a process handle exists
	StateUp
)

// State string constants
const (
	stateDownStr    = "DOWN"
	statePendingStr = "PENDING"
	stateUpStr      = "UP"
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUp:
		return stateUpStr
	case StatePending:
		return statePendingStr
	default:
		return stateDownStr
	}
}

// Status is a point-in-time view of a managed instance. It is derived on
// demand from handle presence and the configuration snapshot, never stored.
type Status struct {
	// State is the lifecycle state at the time of the query
	State State
	// Port is the configured port
	Port int
	// Mode is the configured storage mode
	Mode Mode
}
