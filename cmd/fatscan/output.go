package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aligator/fatscan/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// writeResult writes result in the configured format. text renders the text
// format, the other formats serialize result.
func writeResult(cmd *cobra.Command, result interface{}, text func(w io.Writer) error) error {
	out := cmd.OutOrStdout()

	switch settings.Format {
	case config.FormatText:
		return text(out)

	case config.FormatJSON:
		return writeJSON(out, result, settings.Pretty)

	case config.FormatYAML:
		b, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = out.Write(b)
		return err

	default:
		return fmt.Errorf("unsupported output format: %s", settings.Format)
	}
}

func writeJSON(out io.Writer, value interface{}, pretty bool) error {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(value, "", "    ")
	} else {
		b, err = json.Marshal(value)
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
