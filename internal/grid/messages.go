package grid

import "github.com/google/uuid"

// ResultMsg carries the outcome of a fetch back into the Bubble Tea loop.
// Only a Controller creates them; screens forward every message to their
// controller's Update and let it decide.
type ResultMsg[T any] struct {
	grid  uuid.UUID
	token Token
	page  Page[T]
	err   error
}

// MutationMsg carries the outcome of a Mutate action.
type MutationMsg struct {
	grid uuid.UUID
	kind string
	err  error
}

// Kind returns the mutation kind passed to Mutate.
func (m MutationMsg) Kind() string { return m.kind }

// Err returns the mutation error, if any.
func (m MutationMsg) Err() error { return m.err }
