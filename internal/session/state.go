package session

// State is a step of the revision state machine.
type State int

const (
	StateLocating State = iota
	StateRequesting
	StateSplicing
	StatePersisting
	StateValidating
	StateRetrying
	StateAccepted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLocating:
		return "locating"
	case StateRequesting:
		return "requesting"
	case StateSplicing:
		return "splicing"
	case StatePersisting:
		return "persisting"
	case StateValidating:
		return "validating"
	case StateRetrying:
		return "retrying"
	case StateAccepted:
		return "accepted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateAccepted || s == StateFailed
}
