package platform

import "fmt"

// EventKind identifies a window-system event.
type EventKind int

const (
	// WindowCreated delivers a native window handle in Event.Window.
	WindowCreated EventKind = iota + 1
	// WindowDestroyed means the window is gone; the context must be released.
	WindowDestroyed
	// FocusGained resumes frame production.
	FocusGained
	// FocusLost pauses frame production.
	FocusLost
	// Input is any user input. It ends the run.
	Input
	// DestroyRequested asks the host to tear everything down and return.
	DestroyRequested
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case WindowCreated:
		return "window-created"
	case WindowDestroyed:
		return "window-destroyed"
	case FocusGained:
		return "focus-gained"
	case FocusLost:
		return "focus-lost"
	case Input:
		return "input"
	case DestroyRequested:
		return "destroy-requested"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a window-system event.
type Event struct {
	Kind EventKind

	// Window is the native window handle of a WindowCreated event.
	Window any
}

// Queue returns a channel pre-loaded with events. The channel is left open,
// so a host reading it idles once the events are consumed instead of
// treating the end of the queue as a destroy request.
func Queue(events ...Event) <-chan Event {
	ch := make(chan Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	return ch
}
