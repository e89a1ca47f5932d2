// Package saga records completed steps of a multi-document write together
// with a compensating action for each, so a failure partway through can be
// rolled back deterministically instead of leaving a partially-applied
// state. It is the fallback for workflows that cannot run inside a store
// transaction (e.g. when the server does not support them, or when a step
// touches non-transactional resources like uploaded media files).
package saga

import (
	"context"

	"go.uber.org/zap"
)

type step struct {
	name string
	undo func(ctx context.Context) error
}

// Saga is an ordered compensating-action list. Not safe for concurrent use;
// build one per workflow call.
type Saga struct {
	name  string
	log   *zap.Logger
	steps []step
}

// New creates a saga for one workflow invocation.
func New(name string, log *zap.Logger) *Saga {
	return &Saga{name: name, log: log}
}

// Step runs do and, on success, registers undo as its compensation.
// On failure the error is returned and nothing is registered; the caller
// should then invoke Compensate to undo earlier steps.
func (s *Saga) Step(ctx context.Context, name string, do func(ctx context.Context) error, undo func(ctx context.Context) error) error {
	if err := do(ctx); err != nil {
		s.log.Warn("saga step failed",
			zap.String("saga", s.name),
			zap.String("saga_step", name),
			zap.Error(err),
		)
		return err
	}
	if undo != nil {
		s.steps = append(s.steps, step{name: name, undo: undo})
	}
	return nil
}

// Compensate runs the registered compensations in reverse order. A failed
// compensation is logged distinctly (this is the "partially applied" state
// of record) and the remaining compensations still run.
func (s *Saga) Compensate(ctx context.Context) {
	for i := len(s.steps) - 1; i >= 0; i-- {
		st := s.steps[i]
		if err := st.undo(ctx); err != nil {
			s.log.Error("saga compensation failed; state partially applied",
				zap.String("saga", s.name),
				zap.String("saga_step", st.name),
				zap.Bool("compensated", false),
				zap.Error(err),
			)
			continue
		}
		s.log.Info("saga step compensated",
			zap.String("saga", s.name),
			zap.String("saga_step", st.name),
			zap.Bool("compensated", true),
		)
	}
	s.steps = nil
}

// Completed returns the number of steps with registered compensations.
func (s *Saga) Completed() int { return len(s.steps) }
