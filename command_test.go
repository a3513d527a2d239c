package linterkit

import (
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

func TestCommand_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       [][]string
		wantNested bool
		wantErr    bool
	}{
		{
			name:  "flat tokens",
			input: `["eslint", "--format", "json", "$file"]`,
			want:  [][]string{{"eslint", "--format", "json", "$file"}},
		},
		{
			name:  "command line string",
			input: `"rubocop --format json --stdin '$file'"`,
			want:  [][]string{{"rubocop", "--format", "json", "--stdin", "$file"}},
		},
		{
			name:       "sequence of sequences",
			input:      `[["prettier", "--write", "$file"], ["eslint", "$file"]]`,
			want:       [][]string{{"prettier", "--write", "$file"}, {"eslint", "$file"}},
			wantNested: true,
		},
		{
			name:       "sequence mixing strings and lists",
			input:      `["gofmt -l $file", ["go", "vet", "$file"]]`,
			want:       [][]string{{"gofmt", "-l", "$file"}, {"go", "vet", "$file"}},
			wantNested: true,
		},
		{
			name:    "number token",
			input:   `[["eslint", 1]]`,
			wantErr: true,
		},
		{
			name:    "object",
			input:   `{"cmd": "eslint"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cmd Command
			err := json.Unmarshal([]byte(tt.input), &cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(cmd.Sequences, tt.want) {
				t.Errorf("Sequences = %q, want %q", cmd.Sequences, tt.want)
			}
			if cmd.Nested() != tt.wantNested {
				t.Errorf("Nested() = %v, want %v", cmd.Nested(), tt.wantNested)
			}
		})
	}
}

func TestCommand_MarshalKeepsShape(t *testing.T) {
	flat := NewCommand("eslint", "$file")
	data, err := json.Marshal(flat)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `["eslint","$file"]` {
		t.Errorf("flat Marshal = %s", data)
	}

	nested := NewCommandSequence([]string{"a"}, []string{"b", "c"})
	data, err = json.Marshal(nested)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `[["a"],["b","c"]]` {
		t.Errorf("nested Marshal = %s", data)
	}

	single := NewCommandSequence([]string{"a", "b"})
	data, err = json.Marshal(single)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `[["a","b"]]` {
		t.Errorf("single nested Marshal = %s", data)
	}
}

func TestCommand_String(t *testing.T) {
	cmd := NewCommandSequence(
		[]string{"prettier", "--write", "$file"},
		[]string{"eslint", "--rule", "quotes: [2, double]"},
	)
	want := `prettier --write '$file' && eslint --rule 'quotes: [2, double]'`
	if got := cmd.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand(`shellcheck --format=gcc "$file"`)
	if err != nil {
		t.Fatalf("ParseCommand failed: %v", err)
	}
	want := [][]string{{"shellcheck", "--format=gcc", "$file"}}
	if !reflect.DeepEqual(cmd.Sequences, want) {
		t.Errorf("Sequences = %q, want %q", cmd.Sequences, want)
	}

	if _, err := ParseCommand(`eslint "unterminated`); err == nil {
		t.Error("expected error for unterminated quote")
	}
}

func TestCommand_IsZero(t *testing.T) {
	if !(Command{}).IsZero() {
		t.Error("empty command should be zero")
	}
	if !NewCommandSequence([]string{}).IsZero() {
		t.Error("command with only empty sequences should be zero")
	}
	if NewCommand("x").IsZero() {
		t.Error("command with a token should not be zero")
	}
}
