package storage

// Storage is a generic durable key-value store.  Get on a missing key
// returns a nil value and a nil error.
type Storage interface {
	Get([]byte) ([]byte, error)
	Put([]byte, []byte) error
	Del([]byte) error

	Close() error
}
