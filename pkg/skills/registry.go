// Package skills provides the process-wide skill registry and the execution
// runtime that turns heterogeneous skill implementations into uniform,
// time-bounded invocations.
package skills

import (
	"iter"
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	skilltypes "github.com/chimera-agent/chimera/pkg/types/skills"
)

// Registry maps skill names to implementations. It is populated once at
// startup and only read afterwards; there is no unregistration or
// hot-reload.
type Registry struct {
	mu     sync.RWMutex
	skills map[string]skilltypes.Skill
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{skills: make(map[string]skilltypes.Skill)}
}

// Register adds a skill under its metadata name. The metadata must be valid
// (skill_ naming convention included); registering a name twice fails with
// a *DuplicateRegistrationError and leaves the original mapping untouched.
func (r *Registry) Register(skill skilltypes.Skill) error {
	md := skill.Metadata()
	if err := md.Validate(); err != nil {
		return errors.Wrap(err, "invalid skill metadata")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.skills[md.Name]; exists {
		return &skilltypes.DuplicateRegistrationError{Name: md.Name}
	}
	r.skills[md.Name] = skill
	r.order = append(r.order, md.Name)
	return nil
}

// RegisterAll registers every skill, collecting all failures rather than
// stopping at the first one.
func (r *Registry) RegisterAll(skills ...skilltypes.Skill) error {
	var errs *multierror.Error
	for _, skill := range skills {
		errs = multierror.Append(errs, r.Register(skill))
	}
	return errs.ErrorOrNil()
}

// Lookup returns the implementation registered under name, or a
// *NotFoundError. It never falls back to a default.
func (r *Registry) Lookup(name string) (skilltypes.Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skill, ok := r.skills[name]
	if !ok {
		return nil, &skilltypes.NotFoundError{Name: name}
	}
	return skill, nil
}

// List returns the registered names in registration order. The sequence is
// restartable; every range starts from the beginning.
func (r *Registry) List() iter.Seq[string] {
	return func(yield func(string) bool) {
		r.mu.RLock()
		names := slices.Clone(r.order)
		r.mu.RUnlock()

		for _, name := range names {
			if !yield(name) {
				return
			}
		}
	}
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Describe returns the metadata of every registered skill, in registration
// order.
func (r *Registry) Describe() []skilltypes.Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata := make([]skilltypes.Metadata, 0, len(r.order))
	for _, name := range r.order {
		metadata = append(metadata, r.skills[name].Metadata())
	}
	return metadata
}
