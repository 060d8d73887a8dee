package skills

import (
	"context"
	"time"

	skilltypes "github.com/chimera-agent/chimera/pkg/types/skills"
)

// stubSkill is a configurable implementation of the skill contract used
// across the package tests.
type stubSkill struct {
	md     skilltypes.Metadata
	schema *skilltypes.Schema
	exec   func(ctx context.Context, input skilltypes.Input) skilltypes.Output
}

func (s *stubSkill) Metadata() skilltypes.Metadata   { return s.md }
func (s *stubSkill) InputSchema() *skilltypes.Schema { return s.schema }

func (s *stubSkill) Execute(ctx context.Context, input skilltypes.Input) skilltypes.Output {
	return s.exec(ctx, input)
}

func newStubSkill(name string, schema *skilltypes.Schema, exec func(context.Context, skilltypes.Input) skilltypes.Output) *stubSkill {
	return &stubSkill{
		md:     skilltypes.Metadata{Name: name, Version: "1.0.0", Description: "test skill"},
		schema: schema,
		exec:   exec,
	}
}

func echoSkill() *stubSkill {
	schema := skilltypes.MustSchema(
		skilltypes.Field{Name: "value", Type: skilltypes.TypeString, Required: true},
	)
	return newStubSkill("skill_echo", schema, func(_ context.Context, input skilltypes.Input) skilltypes.Output {
		return skilltypes.OK(map[string]any{"echo": input.String("value")})
	})
}

// slowSkill never completes on its own; it only returns once its context is
// canceled.
func slowSkill() *stubSkill {
	return newStubSkill("skill_slow", nil, func(ctx context.Context, _ skilltypes.Input) skilltypes.Output {
		<-ctx.Done()
		// Linger so the runner's deadline branch is observed before this
		// result could ever arrive.
		time.Sleep(50 * time.Millisecond)
		return skilltypes.Fail("interrupted")
	})
}
