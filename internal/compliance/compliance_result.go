package compliance

// Result collects the violation messages produced by one validation call.
// All rules run even after an earlier failure, so a single call can surface
// multiple simultaneous violations in order.
type Result struct {
	Errors []string
}

func success() Result {
	return Result{}
}

func failure(messages ...string) Result {
	return Result{Errors: messages}
}

// Valid reports whether the candidate passed every rule.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// First returns the primary rejection reason, or "" when valid.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}
