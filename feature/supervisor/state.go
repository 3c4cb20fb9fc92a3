package supervisor

// State is a supervisor life cycle state.
type State int

const (
	Idle State = iota
	Syncing
	Prewarming
	Stabilizing
	Running
	Restarting
	Stopped
)

var stateNames = [...]string{
	Idle:        "idle",
	Syncing:     "syncing",
	Prewarming:  "prewarming",
	Stabilizing: "stabilizing",
	Running:     "running",
	Restarting:  "restarting",
	Stopped:     "stopped",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText renders the state name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
