package file

import "github.com/cockroachdb/errors"

var (
	// ErrPersist marks durable-write failures. When it comes back from a
	// mutation, the in-memory change has already been rolled back.
	ErrPersist = errors.New("persist snapshot")

	// ErrCorruptSnapshot marks an existing snapshot that could not be
	// decoded. A missing snapshot is not corrupt: that is a fresh store.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)
