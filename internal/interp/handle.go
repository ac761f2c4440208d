package interp

import "github.com/cwbudde/algolang/internal/ast"

// Handle is a resumable interpreter instance: the AST walk runs on its
// own goroutine, and Advance is the only operation a host ever calls.
type Handle struct {
	events  chan Event
	replies chan string
	done    chan struct{}
	closed  bool

	awaitingInput bool
	finished      bool
}

// Interpret starts program running on a fresh goroutine, suspended before
// its first statement. Call Advance to drive it forward.
func Interpret(program *ast.Program) *Handle {
	h := &Handle{
		events:  make(chan Event),
		replies: make(chan string),
		done:    make(chan struct{}),
	}
	it := newInterpreter(program, h.events, h.replies, h.done)
	go func() {
		defer close(h.events)
		it.run()
	}()
	return h
}

// Advance runs the AST walk until the next event is ready, then suspends.
// reply is used only when the previous event was Input; it is ignored
// otherwise. Once the walk finishes (normally or on error), every further
// call returns a Done event without touching the goroutine.
func (h *Handle) Advance(reply string) Event {
	if h.finished {
		return Event{Kind: EventDone}
	}
	if h.awaitingInput {
		h.awaitingInput = false
		select {
		case h.replies <- reply:
		case <-h.done:
		}
	}

	ev, ok := <-h.events
	if !ok {
		h.finished = true
		return Event{Kind: EventDone}
	}
	if ev.Kind == EventInput {
		h.awaitingInput = true
	}
	if ev.Kind == EventError {
		h.finished = true
	}
	return ev
}

// Close cancels the handle. The host is not required to call this before
// discarding a Handle that has already reached Done, but doing so for a
// Handle suspended mid-run lets the goroutine unwind instead of leaking
// until its next (never-arriving) channel operation.
func (h *Handle) Close() {
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
}
