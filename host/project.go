package host

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/jrossi/linterkit"
)

// FindProjectRoot walks up from dir to the nearest directory containing
// .git. It returns dir itself when there is none.
func FindProjectRoot(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absDir
	for {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break // Reached root
		}
		current = parent
	}

	return absDir, nil
}

// FindConfigFile walks up from dir, stopping after root, and returns the
// first existing file among names. Names earlier in the list win within a
// directory. It returns "" when nothing is found.
func FindConfigFile(dir, root string, names []string) (string, error) {
	if len(names) == 0 {
		return "", nil
	}

	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		for _, name := range names {
			candidate := filepath.Join(current, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		if current == absRoot {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", nil
}

// EvaluateWhen reports whether every condition holds for the project at
// root. No conditions means the linter always applies.
func EvaluateWhen(root string, conditions []linterkit.Condition) (bool, error) {
	for _, cond := range conditions {
		switch cond {
		case linterkit.ConditionRails:
			ok, err := IsRailsProject(root)
			if err != nil || !ok {
				return false, err
			}
		default:
			return false, fmt.Errorf("unknown condition %q", cond)
		}
	}
	return true, nil
}

var (
	gemfileRails  = regexp.MustCompile(`^\s*gem\s+["']rails["']`)
	lockfileRails = regexp.MustCompile(`^\s+rails \(`)
)

// IsRailsProject checks the Gemfile.lock, then the Gemfile, for the rails gem
func IsRailsProject(root string) (bool, error) {
	manifests := []struct {
		name    string
		pattern *regexp.Regexp
	}{
		{"Gemfile.lock", lockfileRails},
		{"Gemfile", gemfileRails},
	}

	for _, m := range manifests {
		data, err := os.ReadFile(filepath.Join(root, m.name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", m.name, err)
		}

		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if m.pattern.Match(scanner.Bytes()) {
				return true, nil
			}
		}
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("failed to scan %s: %w", m.name, err)
		}
	}
	return false, nil
}
