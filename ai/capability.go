package ai

// Capability holds an optional collaborator. It is either Available with a
// handle or Unavailable, and callers check Get before use.
type Capability[T any] struct {
	handle T
	ok     bool
}

// Available wraps handle. A nil handle yields an unavailable capability.
func Available[T any](handle T) Capability[T] {
	if any(handle) == nil {
		return Capability[T]{}
	}
	return Capability[T]{handle: handle, ok: true}
}

// Unavailable returns an empty capability.
func Unavailable[T any]() Capability[T] {
	return Capability[T]{}
}

// Get returns the handle and whether it is available.
func (c Capability[T]) Get() (T, bool) {
	return c.handle, c.ok
}

// IsAvailable reports whether a handle is present.
func (c Capability[T]) IsAvailable() bool {
	return c.ok
}
