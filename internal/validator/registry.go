package validator

// Registry maps check keys to Check implementations and keeps registration order.
type Registry struct {
	checks map[string]Check
	order  []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Check)}
}

// Register adds a check. Registering a key again replaces the check in place.
func (r *Registry) Register(c Check) {
	if _, ok := r.checks[c.Key()]; !ok {
		r.order = append(r.order, c.Key())
	}
	r.checks[c.Key()] = c
}

// Get returns the check for a given key, or nil if not found.
func (r *Registry) Get(key string) Check {
	return r.checks[key]
}

// All returns all registered checks in registration order.
func (r *Registry) All() []Check {
	out := make([]Check, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.checks[k])
	}
	return out
}

// DefaultRegistry registers the plain checks followed by the hybrid ones.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range PlainChecks() {
		r.Register(c)
	}
	for _, c := range HybridChecks() {
		r.Register(c)
	}
	return r
}
