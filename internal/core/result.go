package core

// Result is the outcome of reconciling a single resource. It carries the
// changed flag alongside a human readable message so callers can report
// without inspecting the remote record again.
type Result struct {
	// Changed reports whether a remote mutation was performed.
	Changed bool

	// Failed marks the reconciliation as unsuccessful.
	Failed bool

	// Action is what the reconciler decided: created, updated, deleted or noop.
	Action string

	// Message is shown to the user.
	Message string

	// Error holds the technical failure detail when Failed is set.
	Error error
}

// SuccessChange returns a successful result that performed a mutation.
func SuccessChange(action, msg string) Result {
	return Result{
		Changed: true,
		Action:  action,
		Message: msg,
	}
}

// SuccessNoChange returns a successful result that left remote state alone.
func SuccessNoChange(msg string) Result {
	return Result{
		Changed: false,
		Action:  "noop",
		Message: msg,
	}
}

// Failure returns a failed result.
func Failure(err error, msg string) Result {
	return Result{
		Changed: false,
		Failed:  true,
		Action:  "failed",
		Message: msg,
		Error:   err,
	}
}
