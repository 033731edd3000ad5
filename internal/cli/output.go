package cli

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joshuadavidthomas/stravabar/internal/display"
)

// outWriter receives everything a command prints. Tests swap it.
var outWriter io.Writer = os.Stdout

func out(format string, a ...any) {
	_, _ = fmt.Fprintf(outWriter, format, a...)
}

func outln(a ...any) {
	_, _ = fmt.Fprintln(outWriter, a...)
}

func outJSON(v any) error {
	return display.OutputJSON(outWriter, v)
}

func outYAML(v any) error {
	enc := yaml.NewEncoder(outWriter)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
