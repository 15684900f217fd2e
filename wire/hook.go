package wire

// Checkpoint marks a point of the cycle where the hook runs.
type Checkpoint int

const (
	CheckpointPreSend Checkpoint = iota
	CheckpointPostSend
)

func (c Checkpoint) String() string {
	switch c {
	case CheckpointPreSend:
		return "pre-send"
	case CheckpointPostSend:
		return "post-send"
	default:
		return "unknown"
	}
}

// Hook observes cycle checkpoints. It has no say in the protocol.
type Hook func(Checkpoint)

// Toggle is an edge-triggered status indicator: its level is inverted at
// every checkpoint and pushed to set. A status LED driven this way blinks
// once per request.
type Toggle struct {
	level bool
	set   func(level bool)
}

// NewToggle returns a toggle starting low. set may be nil.
func NewToggle(set func(level bool)) *Toggle {
	return &Toggle{set: set}
}

// Flip inverts the level.
func (t *Toggle) Flip() {
	t.level = !t.level
	if t.set != nil {
		t.set(t.level)
	}
}

// Level returns the current level.
func (t *Toggle) Level() bool { return t.level }

// Hook adapts the toggle to a cycle hook.
func (t *Toggle) Hook() Hook {
	return func(Checkpoint) { t.Flip() }
}
