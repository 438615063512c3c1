package session

// State is a step of the guided session workflow
type State int

const (
	Idle State = iota
	CollectingSharedFields
	AttemptingTask
	Justifying
	Finalizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CollectingSharedFields:
		return "collecting shared fields"
	case AttemptingTask:
		return "attempting task"
	case Justifying:
		return "justifying"
	case Finalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}
