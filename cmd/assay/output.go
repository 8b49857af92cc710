package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (json, yaml)", format)
}

// write renders v in the requested format. YAML is converted from the JSON
// encoding so both formats share field names.
func write(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	if format == formatYAML {
		data, err = yaml.JSONToYAML(data)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	} else {
		data = append(data, '\n')
	}

	_, err = w.Write(data)
	return err
}
