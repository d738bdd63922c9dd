package jsonkit

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/jsonkit/jsonkit/jsontoken"
)

// Factory produces an Adapter for t qualified by quals, consulting reg for
// any adapters it needs to compose (e.g. a slice factory resolving its
// element type). It returns ok=false to decline, letting the pipeline try
// the next factory in registration order -- spec.md §4.6.
type Factory func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool)

// cell is the forwarding slot spec.md §9 describes for cyclic type graphs:
// a struct referencing itself must be able to obtain an adapter for its own
// type before that adapter finishes building. The cell is created empty,
// handed out as a cellAdapter, and populated exactly once when the
// building factory returns.
type cell struct {
	mu      sync.Mutex
	ready   bool
	adapter Adapter
}

func (c *cell) populate(a Adapter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		panic("jsonkit: cell populated twice")
	}
	c.adapter = a
	c.ready = true
}

func (c *cell) get() (Adapter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adapter, c.ready
}

// Registry resolves (reflect.Type, qualifiers) to an Adapter by probing a
// list of Factory values in registration order and caching the result --
// spec.md §4.6. Resolution is safe for concurrent use after Build().
type Registry struct {
	factories []Factory
	explicit  map[TypeKey]Adapter
	methods   *Methods

	cache      sync.Map // TypeKey -> Adapter
	inProgress map[TypeKey]*cell
	mu         sync.Mutex // guards inProgress; spec.md §4.6's "thread-local in-progress
	// map" simplified to one registry-wide mutex -- Go has no language-level
	// thread-local storage, and a single external Registry.Adapter() call
	// resolves its whole cyclic subgraph synchronously on one goroutine, so
	// a global mutex here never blocks unrelated concurrent lookups for
	// more than the duration of a cache miss.
}

// Builder accumulates factories and explicit bindings before Build()
// freezes them into a Registry.
type Builder struct {
	factories []Factory
	explicit  map[TypeKey]Adapter
	methods   *Methods
}

func NewBuilder() *Builder {
	return &Builder{explicit: make(map[TypeKey]Adapter)}
}

// AddFactory appends f to the end of the probe order. Factories added
// later are only consulted once every earlier factory has declined.
func (b *Builder) AddFactory(f Factory) *Builder {
	b.factories = append(b.factories, f)
	return b
}

// Add binds an explicit Adapter for t under the given qualifiers, checked
// before any factory runs.
func (b *Builder) Add(t reflect.Type, quals []Qualifier, a Adapter) *Builder {
	b.explicit[NewTypeKey(t, quals...)] = a
	return b
}

// AddMethods registers m's @ToJson/@FromJson-equivalent closures as a
// factory, probed in the position this call occupies in the chain.
func (b *Builder) AddMethods(m *Methods) *Builder {
	b.methods = m
	return b.AddFactory(m.factory())
}

func (b *Builder) Build() *Registry {
	return &Registry{
		factories:  append([]Factory(nil), b.factories...),
		explicit:   b.explicit,
		methods:    b.methods,
		inProgress: make(map[TypeKey]*cell),
	}
}

// Adapter resolves t qualified by quals, building it from the factory
// chain on a cache miss and memoizing the result keyed by TypeKey --
// spec.md §8 property: "two Adapter() calls for the same (type, qualifier
// set) return the identical cached instance."
func (reg *Registry) Adapter(t reflect.Type, quals ...Qualifier) (Adapter, error) {
	key := NewTypeKey(t, quals...)
	if v, ok := reg.cache.Load(key); ok {
		return v.(Adapter), nil
	}
	if a, ok := reg.explicit[key]; ok {
		actual, _ := reg.cache.LoadOrStore(key, a)
		return actual.(Adapter), nil
	}

	reg.mu.Lock()
	if c, ok := reg.inProgress[key]; ok {
		// Cyclic reference: hand back a forwarder into the cell this type's
		// own in-flight build already created.
		reg.mu.Unlock()
		return cellAdapter{c: c, key: key}, nil
	}
	c := &cell{}
	reg.inProgress[key] = c
	reg.mu.Unlock()

	defer func() {
		reg.mu.Lock()
		delete(reg.inProgress, key)
		reg.mu.Unlock()
	}()

	for _, f := range reg.factories {
		a, ok := f(t, quals, reg)
		if !ok {
			continue
		}
		c.populate(a)
		actual, _ := reg.cache.LoadOrStore(key, a)
		return actual.(Adapter), nil
	}
	return nil, fmt.Errorf("jsonkit: no adapter for %s", key)
}

// cellAdapter is the forwarding slot spec.md §9 describes for cyclic type
// graphs: handed out in place of the real adapter while that adapter's own
// construction is still in flight (e.g. a struct type that references
// itself). By the time FromJSON/ToJSON actually run -- as opposed to this
// value merely being captured inside a struct-field closure during the
// recursive build -- the owning cell has always been populated, so resolve
// only panics on a genuine construction-order bug.
type cellAdapter struct {
	c   *cell
	key TypeKey
}

func (d cellAdapter) resolve() Adapter {
	a, ready := d.c.get()
	if !ready {
		panic(fmt.Sprintf("jsonkit: adapter for %s used before its cyclic construction finished", d.key))
	}
	return a
}

func (d cellAdapter) FromJSON(r jsontoken.Reader) (any, error) { return d.resolve().FromJSON(r) }
func (d cellAdapter) ToJSON(w jsontoken.Writer, v any) error   { return d.resolve().ToJSON(w, v) }
