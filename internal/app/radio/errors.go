package radio

import "github.com/cockroachdb/errors"

// Errors
var (
	ErrNotActive  = errors.New("radio is not active")
	ErrNotStarted = errors.New("radio session not started")
	ErrClosed     = errors.New("engine is closed")
)

// ErrorKind classifies errors reported through the event sink.
type ErrorKind string

const (
	ErrorSpawn   ErrorKind = "spawn_error"   // Player process failed to launch
	ErrorCrash   ErrorKind = "process_crash" // Player process exited abnormally
	ErrorSupply  ErrorKind = "supply_error"  // Track supply fetch failed
	ErrorPersist ErrorKind = "persist_error" // Session snapshot could not be saved
)
