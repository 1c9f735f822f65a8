package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"components.dev/calc/internal/application/services"
	"components.dev/calc/internal/infrastructure/config"
	"components.dev/calc/internal/interfaces/api"
	"components.dev/calc/internal/testfixtures"
)

func newTestContainer(t *testing.T) *CLIContainer {
	t.Helper()

	cfg := testfixtures.NewConfigBuilder().
		WithPluginsDir(t.TempDir()).
		Build()
	logger := hclog.NewNullLogger()

	linker := services.NewLinker(services.NewLinkerConfig(cfg), logger)
	t.Cleanup(linker.Close)
	evaluations := services.NewEvaluationService(linker, logger)

	return &CLIContainer{
		Config:      cfg,
		Logger:      logger,
		Linker:      linker,
		Evaluations: evaluations,
		Server:      api.NewServer(evaluations, linker, logger),
	}
}

func runCommand(t *testing.T, container *CLIContainer, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(container)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvalCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"add", []string{"eval", "add", "2", "3"}, "5\n"},
		{"subtract", []string{"eval", "subtract", "5", "3"}, "2\n"},
		{"subtract underflow wraps", []string{"eval", "subtract", "0", "1"}, "4294967295\n"},
		{"add overflow wraps", []string{"eval", "add", "4294967295", "1"}, "0\n"},
		{"symbol op", []string{"eval", "-", "1", "2"}, "4294967295\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, newTestContainer(t), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEvalCommand_JSONOutput(t *testing.T) {
	out, err := runCommand(t, newTestContainer(t), "eval", "add", "2", "3", "--output", "json")
	require.NoError(t, err)

	var evaluation services.Evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &evaluation))
	assert.Equal(t, uint32(5), evaluation.Result)
	assert.Equal(t, uint32(2), evaluation.X)
	assert.Equal(t, uint32(3), evaluation.Y)
	assert.NotEmpty(t, evaluation.ID)
}

func TestEvalCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown op", []string{"eval", "multiply", "2", "3"}, "unknown operation"},
		{"negative operand", []string{"eval", "add", "--", "-1", "3"}, "operand x"},
		{"negative operand parsed as flag", []string{"eval", "add", "-1", "3"}, "unknown shorthand flag"},
		{"operand too large", []string{"eval", "add", "2", "4294967296"}, "operand y"},
		{"bad output format", []string{"eval", "add", "2", "3", "-o", "xml"}, "unsupported output format"},
		{"missing operand", []string{"eval", "add", "2"}, "accepts 3 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, newTestContainer(t), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestArithCommands(t *testing.T) {
	container := newTestContainer(t)

	out, err := runCommand(t, container, "add", "4294967295", "1")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	out, err = runCommand(t, container, "subtract", "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "4294967295\n", out)

	out, err = runCommand(t, container, "sub", "0", "0")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestProvidersCommand_JSON(t *testing.T) {
	out, err := runCommand(t, newTestContainer(t), "providers", "--json")
	require.NoError(t, err)

	var report providersReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Linked, 2)
	assert.Equal(t, "adder", report.Linked[0].Capability)
	assert.Equal(t, config.KindBuiltin, report.Linked[0].Kind)
	assert.Equal(t, "subtractor", report.Linked[1].Capability)
	assert.Empty(t, report.Discovered)
}

func TestProvidersCommand_Text(t *testing.T) {
	out, err := runCommand(t, newTestContainer(t), "providers")
	require.NoError(t, err)
	assert.Contains(t, out, "Linked providers")
	assert.Contains(t, out, "adder")
	assert.Contains(t, out, "in-process")
}

func TestServeCommand_RejectsBadAddress(t *testing.T) {
	_, err := runCommand(t, newTestContainer(t), "serve", "--addr", "not-an-address")
	require.Error(t, err)
}

func TestUpdateCommand_DevBuild(t *testing.T) {
	original := Version
	Version = "dev"
	defer func() { Version = original }()

	_, err := runCommand(t, newTestContainer(t), "update", "--check")
	assert.ErrorIs(t, err, ErrDevBuild)
}

func TestParseOperand(t *testing.T) {
	tests := []struct {
		value   string
		want    uint32
		wantErr bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{"4294967295", 4294967295, false},
		{"4294967296", 0, true},
		{"-1", 0, true},
		{"0x10", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseOperand("x", tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
