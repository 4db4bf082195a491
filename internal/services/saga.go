package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// SagaStep is one side effect of a multi-record operation and the action that undoes it.
// Compensate may be nil when the step has nothing to undo.
type SagaStep struct {
	Name       string
	Apply      func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga runs steps in order. When a step fails, the Compensate of every step that already
// succeeded runs in reverse order, and the original error is returned. If any compensation
// fails too, the result is a *CompensationError.
type Saga struct {
	name   string
	logger *zap.Logger
	steps  []SagaStep
	done   []SagaStep
}

func NewSaga(name string, logger *zap.Logger) *Saga {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saga{name: name, logger: logger}
}

func (s *Saga) Add(step SagaStep) *Saga {
	s.steps = append(s.steps, step)
	return s
}

func (s *Saga) Run(ctx context.Context) error {
	for i := 0; i < len(s.steps); i++ {
		step := s.steps[i]
		if err := step.Apply(ctx); err != nil {
			s.logger.Warn("saga step failed, compensating",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Int("completed", len(s.done)),
				zap.Error(err),
			)
			return s.rollback(ctx, step.Name, err)
		}
		s.done = append(s.done, step)
	}
	return nil
}

func (s *Saga) rollback(ctx context.Context, failed string, cause error) error {
	// The caller's context may already be cancelled; compensation must still run.
	ctx = context.WithoutCancel(ctx)

	var failures []error
	for i := len(s.done) - 1; i >= 0; i-- {
		step := s.done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("compensation failed",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			failures = append(failures, fmt.Errorf("%s: %w", step.Name, err))
		}
	}
	s.done = nil
	if len(failures) > 0 {
		return &CompensationError{Op: s.name + "/" + failed, Cause: cause, Failures: failures}
	}
	return cause
}

// IsCompensationError reports whether err left the store in a state rollback could not repair.
func IsCompensationError(err error) bool {
	var ce *CompensationError
	return errors.As(err, &ce)
}
