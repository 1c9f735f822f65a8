package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"components.dev/calc/internal/application/services"
	"components.dev/calc/internal/core/adder"
	"components.dev/calc/internal/core/calculator"
	"components.dev/calc/internal/core/domain"
	"components.dev/calc/internal/core/ports"
	"components.dev/calc/internal/core/subtractor"
)

type staticProviders []ports.Provider

func (p staticProviders) Providers() []ports.Provider { return p }

func newTestServer(t *testing.T, evaluator services.Evaluator) *httptest.Server {
	t.Helper()
	if evaluator == nil {
		evaluator = calculator.New(adder.Adder{}, subtractor.Subtractor{})
	}
	providers := staticProviders{
		{Capability: ports.CapabilityAdder, Kind: "builtin", Source: "in-process"},
		{Capability: ports.CapabilitySubtractor, Kind: "builtin", Source: "in-process"},
	}
	logger := hclog.NewNullLogger()
	server := NewServer(services.NewEvaluationService(evaluator, logger), providers, logger)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type evaluationBody struct {
	ID     string `json:"id"`
	Op     string `json:"op"`
	X      uint32 `json:"x"`
	Y      uint32 `json:"y"`
	Result uint32 `json:"result"`
	Error  string `json:"error"`
}

func decodeBody(t *testing.T, resp *http.Response) evaluationBody {
	t.Helper()
	defer resp.Body.Close()
	var body evaluationBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestEvalQuery(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedResult uint32
		expectedOp     string
	}{
		{name: "Add", path: "/v1/eval/add?x=2&y=3", expectedStatus: http.StatusOK, expectedResult: 5, expectedOp: "add"},
		{name: "Subtract", path: "/v1/eval/subtract?x=5&y=3", expectedStatus: http.StatusOK, expectedResult: 2, expectedOp: "subtract"},
		{name: "SubtractWraps", path: "/v1/eval/sub?x=0&y=1", expectedStatus: http.StatusOK, expectedResult: 4294967295, expectedOp: "subtract"},
		{name: "AddWraps", path: "/v1/eval/add?x=4294967295&y=1", expectedStatus: http.StatusOK, expectedResult: 0, expectedOp: "add"},
		{name: "UnknownOp", path: "/v1/eval/multiply?x=2&y=3", expectedStatus: http.StatusBadRequest},
		{name: "MissingOperand", path: "/v1/eval/add?x=2", expectedStatus: http.StatusBadRequest},
		{name: "NegativeOperand", path: "/v1/eval/add?x=-1&y=3", expectedStatus: http.StatusBadRequest},
		{name: "OperandTooLarge", path: "/v1/eval/add?x=4294967296&y=3", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			body := decodeBody(t, resp)
			if tt.expectedStatus != http.StatusOK {
				assert.NotEmpty(t, body.Error)
				return
			}
			assert.NotEmpty(t, body.ID)
			assert.Equal(t, tt.expectedOp, body.Op)
			assert.Equal(t, tt.expectedResult, body.Result)
		})
	}
}

func TestEvalBody(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedResult uint32
	}{
		{name: "Add", body: `{"op":"add","x":2,"y":3}`, expectedStatus: http.StatusOK, expectedResult: 5},
		{name: "SymbolOp", body: `{"op":"-","x":5,"y":3}`, expectedStatus: http.StatusOK, expectedResult: 2},
		{name: "MissingOp", body: `{"x":5,"y":3}`, expectedStatus: http.StatusBadRequest},
		{name: "MissingY", body: `{"op":"add","x":5}`, expectedStatus: http.StatusBadRequest},
		{name: "UnknownOp", body: `{"op":"divide","x":5,"y":3}`, expectedStatus: http.StatusBadRequest},
		{name: "Overflowing", body: `{"op":"add","x":4294967296,"y":3}`, expectedStatus: http.StatusBadRequest},
		{name: "NotJSON", body: `add 2 3`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/v1/eval", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			body := decodeBody(t, resp)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedResult, body.Result)
			} else {
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

func TestEval_ProviderFailureIsBadGateway(t *testing.T) {
	ts := newTestServer(t, calculator.New(
		ports.AdderFunc(func(ctx context.Context, x, y uint32) (uint32, error) {
			return 0, &ports.ProviderError{Capability: ports.CapabilityAdder, Kind: "plugin", Err: errors.New("plugin exited")}
		}),
		subtractor.Subtractor{},
	))

	resp, err := http.Get(ts.URL + "/v1/eval/add?x=1&y=1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, decodeBody(t, resp).Error, "plugin exited")
}

func TestProviders(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/providers")
	require.NoError(t, err)
	defer resp.Body.Close()

	var providers []ports.Provider
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&providers))
	require.Len(t, providers, 2)
	assert.Equal(t, ports.CapabilityAdder, providers[0].Capability)
}

func TestStream(t *testing.T) {
	ts := newTestServer(t, nil)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/stream"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	frames := []struct {
		request        string
		expectedResult uint32
		expectError    bool
	}{
		{request: `{"op":"add","x":2,"y":3}`, expectedResult: 5},
		{request: `{"op":"subtract","x":0,"y":1}`, expectedResult: 4294967295},
		{request: `{"op":"modulo","x":1,"y":1}`, expectError: true},
		{request: `garbage`, expectError: true},
		{request: `{"op":"add","x":4294967295,"y":1}`, expectedResult: 0},
	}

	for _, frame := range frames {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame.request)))

		var body evaluationBody
		require.NoError(t, conn.ReadJSON(&body))
		if frame.expectError {
			assert.NotEmpty(t, body.Error, "request %s", frame.request)
			continue
		}
		assert.Empty(t, body.Error)
		assert.Equal(t, frame.expectedResult, body.Result, "request %s", frame.request)
	}
}

func TestStream_RejectsOversizedFrame(t *testing.T) {
	ts := newTestServer(t, nil)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/stream"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	padding := strings.Repeat(" ", maxRequestBytes)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"op":"add","x":2,"y":3}`+padding)))

	var body evaluationBody
	err = conn.ReadJSON(&body)
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseMessageTooBig), "unexpected error: %v", err)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.ErrUnknownOp))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(services.ErrNotLinked))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(&ports.ProviderError{Capability: ports.CapabilityAdder, Kind: "wasm", Err: context.DeadlineExceeded}))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(&ports.ProviderError{Capability: ports.CapabilitySubtractor, Kind: "plugin", Err: context.Canceled}))
	assert.Equal(t, http.StatusBadGateway, statusFor(&ports.ProviderError{Capability: ports.CapabilityAdder, Kind: "plugin", Err: errors.New("connection shut down")}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("other")))
}
