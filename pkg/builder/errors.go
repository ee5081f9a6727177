package builder

// BuildError is returned when the external build program exits
// non-zero.  Output carries the captured process output for the log.
type BuildError struct {
	Recipe string
	Output []byte
	Err    error
}

func (e *BuildError) Error() string {
	msg := "build failed: " + e.Recipe
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ErrUnknownBuilder is returned when a builder factory is requested
// that has not been registered.
type ErrUnknownBuilder struct {
	attempted string
}

// NewErrUnknownBuilder returns a new error specialized to the
// attempted builder name.
func NewErrUnknownBuilder(s string) ErrUnknownBuilder {
	return ErrUnknownBuilder{s}
}

func (e ErrUnknownBuilder) Error() string {
	return "no builder with name " + e.attempted + " exists"
}
