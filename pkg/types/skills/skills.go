// Package skills defines the contract every Chimera skill implements: the
// metadata attached to a skill, the schema-validated input and output
// envelopes, and the error taxonomy shared by the registry and the runner.
package skills

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
)

// namePattern is the naming convention enforced at registration time:
// lowercase, underscore separated, skill_ prefix.
var namePattern = regexp.MustCompile(`^skill_[a-z][a-z0-9_]*$`)

// Metadata describes a skill. It is fixed at skill definition time and
// immutable once the skill is registered.
type Metadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Validate checks the naming convention and that version and description
// are present.
func (m Metadata) Validate() error {
	if !namePattern.MatchString(m.Name) {
		return errors.Errorf("skill name %q does not match %s", m.Name, namePattern)
	}
	if m.Version == "" {
		return errors.Errorf("skill %q has no version", m.Name)
	}
	if m.Description == "" {
		return errors.Errorf("skill %q has no description", m.Name)
	}
	return nil
}

// Skill is the contract every skill implements.
//
// Execute receives an input already validated against InputSchema and
// returns exactly one Output. Implementations must observe ctx cancellation
// at their own suspension points; a skill that ignores it keeps running
// after the runner has already reported a timed-out result, holding
// whatever resources it owns until it returns on its own. Skills report
// their own failures through a failed Output rather than panicking; a panic
// that does escape Execute is intercepted at the runner boundary. The
// contract gives no idempotence or side-effect guarantee, and a skill that
// shares resources across concurrent invocations of itself must make that
// sharing safe.
type Skill interface {
	Metadata() Metadata
	InputSchema() *Schema
	Execute(ctx context.Context, input Input) Output
}
