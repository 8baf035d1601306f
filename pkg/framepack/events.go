package framepack

// EventHandler receives notifications from a running Watcher.
// Handlers are called synchronously; blocking in a handler delays the
// watcher. Embed BaseEventHandler for no-op defaults.
type EventHandler interface {
	// OnStateChange is called on every lifecycle transition.
	OnStateChange(event StateChangeEvent)

	// OnPassComplete is called after each successful compression pass.
	OnPassComplete(event PassCompleteEvent)

	// OnPassError is called after each failed compression attempt,
	// before the retry backoff.
	OnPassError(event PassErrorEvent)
}

// BaseEventHandler provides no-op implementations of EventHandler.
// Embed it to implement only the events you care about.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent)   {}
func (BaseEventHandler) OnPassComplete(PassCompleteEvent) {}
func (BaseEventHandler) OnPassError(PassErrorEvent)       {}

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// PassCompleteEvent describes a successful compression pass.
type PassCompleteEvent struct {
	Summary CompressSummary
}

// PassErrorEvent describes a failed compression attempt.
type PassErrorEvent struct {
	Err     error
	Attempt int
}
