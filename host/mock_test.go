package host

import (
	"context"
	"sync/atomic"

	"github.com/jrossi/linterkit"
)

// MockAdapter simulates an adapter with only GetOffenses
type MockAdapter struct {
	name      string
	offenses  []linterkit.Offense
	err       error
	execCount int32
	workChan  chan struct{} // Channel to simulate work completion
}

func (m *MockAdapter) Name() string { return m.name }

func (m *MockAdapter) GetOffenses(ctx context.Context, params linterkit.LinterParams) ([]linterkit.Offense, error) {
	atomic.AddInt32(&m.execCount, 1)

	if m.workChan != nil {
		select {
		case <-m.workChan:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return m.offenses, m.err
}

// PragmaAdapter implements every optional operation
type PragmaAdapter struct {
	MockAdapter
}

func (p *PragmaAdapter) GetIgnoreEolPragma(ctx context.Context, params linterkit.EolPragmaParams) (string, error) {
	return params.Line.Text + " # ignore:" + params.Code, nil
}

func (p *PragmaAdapter) GetIgnoreLinePragma(ctx context.Context, params linterkit.LinePragmaParams) (string, error) {
	return params.Indent + "# ignore-next:" + params.Code, nil
}

func (p *PragmaAdapter) GetIgnoreFilePragma(ctx context.Context, params linterkit.FilePragmaParams) (string, error) {
	return params.Indent + "# ignore-file:" + params.Code, nil
}

func (p *PragmaAdapter) ParseFixOutput(ctx context.Context, params linterkit.FixOutputParams) (string, error) {
	return "parsed:" + params.Stdout, nil
}

func testConfig(name string, caps ...linterkit.Capability) linterkit.LinterConfig {
	return linterkit.LinterConfig{
		Name:         name,
		Command:      linterkit.NewCommand(name, "$file"),
		Languages:    []string{"python"},
		Capabilities: caps,
	}
}

func offense(source, code string, line, column int) linterkit.Offense {
	return linterkit.Offense{
		Code:        code,
		Message:     code + " message",
		Source:      source,
		Severity:    linterkit.SeverityWarning,
		LineStart:   line,
		ColumnStart: column,
		LineEnd:     line,
		ColumnEnd:   column + 1,
	}
}
