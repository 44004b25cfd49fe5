package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeOutput prints v as indented JSON or as YAML. YAML goes through the
// JSON encoding first so both formats use the same field names.
func writeOutput(w io.Writer, format string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode output")
	}

	switch format {
	case "", formatJSON:
		_, err = fmt.Fprintln(w, string(b))
		return err
	case formatYAML:
		var generic any
		if err := json.Unmarshal(b, &generic); err != nil {
			return eris.Wrap(err, "convert output")
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		_, err = w.Write(out)
		return err
	default:
		return eris.Errorf("unknown format %q (want json or yaml)", format)
	}
}

// readJSON decodes the JSON file at path into v.
func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return eris.Wrapf(err, "decode %s", path)
	}
	return nil
}
