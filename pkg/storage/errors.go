package storage

// ErrUnknownStore is returned when a store factory is requested that
// has not been registered.
type ErrUnknownStore struct {
	attempted string
}

// NewErrUnknownStore returns a new error specialized to the attempted
// store name.
func NewErrUnknownStore(s string) ErrUnknownStore {
	return ErrUnknownStore{s}
}

func (e ErrUnknownStore) Error() string {
	return "no store with name " + e.attempted + " exists"
}
