package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/belso"
	"github.com/reoring/belso/format"
	"github.com/reoring/belso/internal/jsonutil"
	"github.com/reoring/belso/translator"
)

// readInput loads a schema file ("-" reads stdin). JSON and XML stay as text
// so property order survives; YAML is normalised into a map for detection.
func readInput(path string, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		m, err := jsonutil.UnmarshalYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return m, nil
	}
	return bytes.TrimSpace(data), nil
}

// render serialises a translated value. Text codecs are written as is, every
// other representation as JSON.
func render(v any, indent string) ([]byte, error) {
	switch t := v.(type) {
	case string:
		return []byte(strings.TrimRight(t, "\n") + "\n"), nil
	case *belso.Schema:
		out, err := format.MarshalJSON(t, format.WithIndent(indent))
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
	out, err := jsonutil.Marshal(v, indent)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// extension is the file extension written for dialect d.
func extension(d translator.Dialect) string {
	switch d {
	case translator.XML:
		return ".xml"
	case translator.YAML:
		return ".yaml"
	}
	return ".json"
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
