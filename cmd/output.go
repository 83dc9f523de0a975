package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// render prints v in the selected output format. text is used for the
// default format.
func render(v any, text func()) error {
	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	case "text", "":
		text()
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
	return nil
}
