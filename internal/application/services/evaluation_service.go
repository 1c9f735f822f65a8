package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"components.dev/calc/internal/core/domain"
)

// Evaluator is satisfied by calculator.Calculator and Linker
type Evaluator interface {
	EvalExpression(ctx context.Context, op domain.Op, x, y uint32) (uint32, error)
}

// Evaluation is the record of one evaluated expression
type Evaluation struct {
	ID     string    `json:"id"`
	Op     domain.Op `json:"op"`
	X      uint32    `json:"x"`
	Y      uint32    `json:"y"`
	Result uint32    `json:"result"`
}

// String renders the evaluation as an infix expression
func (e *Evaluation) String() string {
	return fmt.Sprintf("%d %s %d = %d", e.X, e.Op.Symbol(), e.Y, e.Result)
}

// EvaluationService is the entry point used by the CLI, REPL and HTTP host
type EvaluationService struct {
	evaluator Evaluator
	logger    hclog.Logger
	newID     func() string
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(evaluator Evaluator, logger hclog.Logger) *EvaluationService {
	return &EvaluationService{
		evaluator: evaluator,
		logger:    logger.Named("eval"),
		newID:     uuid.NewString,
	}
}

// Evaluate runs one expression and stamps it with a fresh ID
func (s *EvaluationService) Evaluate(ctx context.Context, op domain.Op, x, y uint32) (*Evaluation, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownOp, op)
	}

	id := s.newID()
	result, err := s.evaluator.EvalExpression(ctx, op, x, y)
	if err != nil {
		s.logger.Error("evaluation failed", "id", id, "op", op, "x", x, "y", y, "error", err)
		return nil, err
	}

	s.logger.Debug("evaluated", "id", id, "op", op, "x", x, "y", y, "result", result)

	return &Evaluation{
		ID:     id,
		Op:     op,
		X:      x,
		Y:      y,
		Result: result,
	}, nil
}
