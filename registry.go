package virtual

// Registry maps containers to their engines. An engine is created the first
// time a container is updated and lives until the container is detached.
//
// Containers are used as map keys, so implementations must be comparable;
// pointer types are. A Registry is not safe for concurrent use.
type Registry[T any] struct {
	opts    []Option
	engines map[Container]*Engine[T]
}

// NewRegistry creates a registry whose engines are configured with opts.
func NewRegistry[T any](opts ...Option) *Registry[T] {
	return &Registry[T]{
		opts:    opts,
		engines: make(map[Container]*Engine[T]),
	}
}

// Update hands a new collection to the container's engine and runs a layout
// pass. It returns the key sequence the host should render.
//
// When a pass is already running for the container (the host re-rendered
// synchronously from SetRenderedKeys), the collection is stored and the
// running pass repeats with it instead of starting a nested one.
func (r *Registry[T]) Update(c Container, src Source[T]) ([]string, error) {
	e, created := r.attach(c)
	if err := e.setSource(src); err != nil {
		if created {
			r.Detach(c)
		}
		return e.RenderedKeys(), err
	}
	if err := e.layoutPass(); err != nil {
		return e.RenderedKeys(), err
	}
	return e.RenderedKeys(), nil
}

// Engine returns the engine attached to c.
func (r *Registry[T]) Engine(c Container) (*Engine[T], bool) {
	e, ok := r.engines[c]
	return e, ok
}

// Detach forgets the engine attached to c. Call it when the container is
// destroyed.
func (r *Registry[T]) Detach(c Container) {
	delete(r.engines, c)
}

// Len returns the number of attached containers.
func (r *Registry[T]) Len() int {
	return len(r.engines)
}

// attach returns the engine of c, creating it when c is new.
func (r *Registry[T]) attach(c Container) (*Engine[T], bool) {
	if e, ok := r.engines[c]; ok {
		return e, false
	}
	e := newEngine[T](c, buildSettings(r.opts))
	r.engines[c] = e
	return e, true
}
