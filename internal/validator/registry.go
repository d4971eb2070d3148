package validator

// Registry holds validators in registration order.
type Registry struct {
	validators []Validator
	byKey      map[string]Validator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Validator)}
}

// NewBuiltinRegistry returns a Registry with every built-in check.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, v := range RequiredValidators() {
		r.Register(v)
	}
	for _, v := range FormatValidators() {
		r.Register(v)
	}
	for _, v := range MathValidators() {
		r.Register(v)
	}
	for _, v := range LogicalValidators() {
		r.Register(v)
	}
	return r
}

// Register adds a validator, replacing any previous one with the same key.
func (r *Registry) Register(v Validator) {
	if _, exists := r.byKey[v.RuleKey()]; exists {
		for i := range r.validators {
			if r.validators[i].RuleKey() == v.RuleKey() {
				r.validators[i] = v
			}
		}
	} else {
		r.validators = append(r.validators, v)
	}
	r.byKey[v.RuleKey()] = v
}

// Get returns the validator for a given rule key, or nil if not found.
func (r *Registry) Get(key string) Validator {
	return r.byKey[key]
}

// All returns all registered validators in registration order.
func (r *Registry) All() []Validator {
	out := make([]Validator, len(r.validators))
	copy(out, r.validators)
	return out
}
