package flow

import "github.com/openstimuli/cadence/pkg/domain"

// VariableStore holds the embedded-data variables of one survey run.
// Later assignments overwrite earlier ones. It is mutated only by the single
// interpreter thread of control, so no locking is needed.
type VariableStore struct {
	values map[string]any
}

// NewVariableStore creates an empty store.
func NewVariableStore() *VariableStore {
	return &VariableStore{values: make(map[string]any)}
}

// Set assigns a variable, overwriting any previous value.
func (s *VariableStore) Set(name string, value any) {
	s.values[name] = value
}

// Get returns a variable's value and whether it was assigned.
func (s *VariableStore) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Len returns the number of assigned variables.
func (s *VariableStore) Len() int {
	return len(s.values)
}

// Env returns a fresh map holding only the variables.
func (s *VariableStore) Env() map[string]any {
	env := make(map[string]any, len(s.values))
	for k, v := range s.values {
		env[k] = v
	}
	return env
}

// EnvWith returns the union of the variables and the collected answers, the
// data context conditionals and skip logic are evaluated against. Answers win
// on key collision, so expressions see the participant's latest data.
func (s *VariableStore) EnvWith(results domain.Results) map[string]any {
	env := make(map[string]any, len(s.values)+len(results))
	for k, v := range s.values {
		env[k] = v
	}
	for k, v := range results {
		env[k] = v
	}
	return env
}

// MergeInto copies every variable into the results artifact, as done on
// survey completion.
func (s *VariableStore) MergeInto(results domain.Results) {
	for k, v := range s.values {
		results[k] = v
	}
}
