package ui

// AssertionsEnabled turns on the development-time checks on namespace values
// (property value types, style syntax). Production code leaves it off and
// trusts the caller. Builds tagged uidebug start with it on.
var AssertionsEnabled = assertionsDefault

func mustHold(cond bool, err error, detail string) {
	if !AssertionsEnabled || cond {
		return
	}
	panic(wrapPanic(err, detail))
}

type panicError struct {
	err    error
	detail string
}

func (p panicError) Error() string { return p.err.Error() + ": " + p.detail }
func (p panicError) Unwrap() error { return p.err }

func wrapPanic(err error, detail string) error {
	if detail == "" {
		return err
	}
	return panicError{err, detail}
}
