// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatText outputFormat = "text"
	formatYAML outputFormat = "yaml"
	formatJSON outputFormat = "json"
)

// ErrInvalidFormat is returned for an unknown --format value.
var ErrInvalidFormat = errors.New("invalid output format")

// outputFormat selects how listing commands print their results.
type outputFormat string

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case formatText, formatYAML, formatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q (expected text, yaml or json)", ErrInvalidFormat, s)
	}
}

// writeStructured encodes v as YAML or JSON.
func writeStructured(w io.Writer, f outputFormat, v any) error {
	switch f {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("%w %q for structured output", ErrInvalidFormat, f)
	}
}

// render prints v structurally, or calls text for the text format.
func (a *App) render(v any, text func(io.Writer)) error {
	f, err := parseFormat(a.flags.format)
	if err != nil {
		return err
	}
	if f == formatText {
		text(a.stdout)
		return nil
	}
	return writeStructured(a.stdout, f, v)
}
