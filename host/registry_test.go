package host

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/jrossi/linterkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	entry, err := registry.Register(testConfig("ruff"), &MockAdapter{name: "ruff"})
	require.NoError(t, err)
	assert.Equal(t, "ruff", entry.Name())

	_, err = registry.Register(testConfig("ruff"), &MockAdapter{name: "ruff"})
	assert.ErrorIs(t, err, ErrDuplicateLinter)

	_, err = registry.Register(testConfig("pylint"), &MockAdapter{name: "flake8"})
	assert.ErrorIs(t, err, ErrNameMismatch)

	_, err = registry.Register(testConfig("mypy"), nil)
	assert.Error(t, err)

	invalid := testConfig("black")
	invalid.Command = linterkit.Command{}
	_, err = registry.Register(invalid, &MockAdapter{name: "black"})
	assert.ErrorContains(t, err, "command is empty")

	assert.Equal(t, []string{"ruff"}, registry.Names())
}

func TestRegistry_LookupAndUnregister(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Register(testConfig("ruff"), &MockAdapter{name: "ruff"})
	require.NoError(t, err)

	entry, err := registry.Lookup("ruff")
	require.NoError(t, err)
	assert.Equal(t, "ruff", entry.Config().Name)

	_, err = registry.Lookup("pylint")
	assert.ErrorIs(t, err, ErrUnknownLinter)

	assert.True(t, registry.Unregister("ruff"))
	assert.False(t, registry.Unregister("ruff"))
	assert.Empty(t, registry.Names())
}

func TestRegistry_ForLanguage(t *testing.T) {
	registry := NewRegistry()

	disabled := testConfig("pylint")
	disabled.Enabled = boolPtr(false)
	shell := testConfig("shellcheck")
	shell.Languages = []string{"shellscript"}

	for _, cfg := range []linterkit.LinterConfig{testConfig("ruff"), disabled, shell, testConfig("mypy")} {
		_, err := registry.Register(cfg, &MockAdapter{name: cfg.Name})
		require.NoError(t, err)
	}

	var names []string
	for _, entry := range registry.ForLanguage("python") {
		names = append(names, entry.Name())
	}
	assert.Equal(t, []string{"mypy", "ruff"}, names)
	assert.Empty(t, registry.ForLanguage("go"))
}

func TestRegistry_WarnsAboutDormantOperations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	registry := NewRegistry(WithLogger(logger))

	_, err := registry.Register(testConfig("ruff", linterkit.CapIgnoreEol), &PragmaAdapter{MockAdapter{name: "ruff"}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "getIgnoreLinePragma")
	assert.Contains(t, out, "getIgnoreFilePragma")
	assert.Contains(t, out, "parseFixOutput")
	assert.NotContains(t, out, "getIgnoreEolPragma")
}

func boolPtr(b bool) *bool {
	return &b
}
