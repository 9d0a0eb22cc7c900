package entities

import "fmt"

// DispatchState is the lifecycle state of one dispatch.
//
//	Created -> Extracted -> Patched -> Done
//	Created -> Failed, Extracted -> Failed
type DispatchState string

const (
	// DispatchCreated is the initial state.
	DispatchCreated DispatchState = "created"
	// DispatchExtracted means the entry set is known.
	DispatchExtracted DispatchState = "extracted"
	// DispatchPatched means the patch behavior returned successfully.
	DispatchPatched DispatchState = "patched"
	// DispatchDone is terminal success.
	DispatchDone DispatchState = "done"
	// DispatchFailed is terminal failure.
	DispatchFailed DispatchState = "failed"
)

var dispatchTransitions = map[DispatchState][]DispatchState{
	DispatchCreated:   {DispatchExtracted, DispatchFailed},
	DispatchExtracted: {DispatchPatched, DispatchFailed},
	DispatchPatched:   {DispatchDone},
}

// CanTransition reports whether moving from s to next is allowed.
func (s DispatchState) CanTransition(next DispatchState) bool {
	for _, allowed := range dispatchTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist.
func (s DispatchState) IsTerminal() bool {
	return s == DispatchDone || s == DispatchFailed
}

// Validate returns an error if the state value is unknown.
func (s DispatchState) Validate() error {
	switch s {
	case DispatchCreated, DispatchExtracted, DispatchPatched, DispatchDone, DispatchFailed:
		return nil
	default:
		return fmt.Errorf("invalid dispatch state: %s", s)
	}
}
