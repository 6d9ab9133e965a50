package photo

// State is the lifecycle position of an editing session.
type State int

const (
	StateIdle State = iota
	StateAwaitingCapture
	StateCaptureReady
	StateCommitted
	StateDiscarded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAwaitingCapture:
		return "AwaitingCapture"
	case StateCaptureReady:
		return "CaptureReady"
	case StateCommitted:
		return "Committed"
	case StateDiscarded:
		return "Discarded"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the session has been committed or discarded.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateDiscarded
}
