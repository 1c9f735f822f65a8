package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"components.dev/calc/internal/core/domain"
)

// maxRequestBytes caps a POST body or a stream frame
const maxRequestBytes = 4096

// EvalRequest is the body of POST /v1/eval and of each stream frame
type EvalRequest struct {
	Op *domain.Op `json:"op"`
	X  *uint32    `json:"x"`
	Y  *uint32    `json:"y"`
}

func (r *EvalRequest) validate() error {
	if r.Op == nil {
		return errors.New("op is required")
	}
	if r.X == nil {
		return errors.New("operand x is required")
	}
	if r.Y == nil {
		return errors.New("operand y is required")
	}
	return nil
}

func decodeEvalRequest(data []byte) (*EvalRequest, error) {
	var req EvalRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// bindOperand binds a required query operand and checks it fits in 32 bits
func bindOperand(name string, query url.Values) (uint32, error) {
	var value uint64
	if err := runtime.BindQueryParameter("form", true, true, name, query, &value); err != nil {
		return 0, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if value > math.MaxUint32 {
		return 0, fmt.Errorf("parameter %s out of range: %d", name, value)
	}
	return uint32(value), nil
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.providers.Providers())
}

// handleEvalQuery serves GET /v1/eval/{op}?x=..&y=..
func (s *Server) handleEvalQuery(w http.ResponseWriter, r *http.Request) {
	var opName string
	if err := runtime.BindStyledParameterWithLocation("simple", false, "op", runtime.ParamLocationPath, chi.URLParam(r, "op"), &opName); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter op: %w", err))
		return
	}
	op, err := domain.ParseOp(opName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	x, err := bindOperand("x", r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	y, err := bindOperand("y", r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.evaluate(w, r, op, x, y)
}

// handleEvalBody serves POST /v1/eval
func (s *Server) handleEvalBody(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	req, err := decodeEvalRequest(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.evaluate(w, r, *req.Op, *req.X, *req.Y)
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request, op domain.Op, x, y uint32) {
	evaluation, err := s.evaluations.Evaluate(r.Context(), op, x, y)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, evaluation)
}
