package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/termfx/jsxlint/rules"
)

// ErrExists is returned by WriteStarter when the target file exists.
var ErrExists = errors.New("config file already exists")

const starterTemplate = `# jsxlint configuration
extends: %s

rules:
%s
include:
  - "**/*.tsx"
  - "**/*.jsx"
exclude:
  - "**/*.stories.tsx"
  - "**/*.test.tsx"

cache:
  enabled: false
  dsn: %s
  keep: 50
`

// Starter renders a starter config extending preset, with every rule listed
// at its preset severity.
func Starter(preset string) (string, error) {
	severities, err := rules.Preset(preset)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConfig, err)
	}
	var b strings.Builder
	for _, id := range rules.IDs() {
		fmt.Fprintf(&b, "  %s: %s\n", id, severities[id])
	}
	return fmt.Sprintf(starterTemplate, preset, b.String(), DefaultDSN), nil
}

// WriteStarter writes Starter(preset) to path unless it already exists.
func WriteStarter(path, preset string, force bool) error {
	content, err := Starter(preset)
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
