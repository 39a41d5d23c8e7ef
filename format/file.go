package format

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/belso"
)

// Codec names a text format.
type Codec int

const (
	JSON Codec = iota
	YAML
	XML
)

func (c Codec) String() string {
	switch c {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case XML:
		return "xml"
	}
	return fmt.Sprintf("Codec(%d)", int(c))
}

// ErrUnsupportedExtension is returned for paths whose extension is not
// .json, .yaml, .yml or .xml.
var ErrUnsupportedExtension = errors.New("format: unsupported file extension")

// CodecFor picks the codec from the file extension (case-insensitive).
func CodecFor(path string) (Codec, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, true
	case ".yaml", ".yml":
		return YAML, true
	case ".xml":
		return XML, true
	}
	return JSON, false
}

// Marshal encodes s with codec c and reports failures as errors.
func Marshal(c Codec, s *belso.Schema, opts ...Option) ([]byte, error) {
	switch c {
	case JSON:
		return MarshalJSON(s, opts...)
	case YAML:
		return MarshalYAML(s, opts...)
	case XML:
		return MarshalXML(s, opts...)
	}
	return nil, fmt.Errorf("format: unknown codec %d", int(c))
}

// Decode reads text with codec c.
func Decode(c Codec, data []byte, opts ...Option) belso.Result[*belso.Schema] {
	switch c {
	case YAML:
		return DecodeYAML(data, opts...)
	case XML:
		return DecodeXML(data, opts...)
	}
	return DecodeJSON(data, opts...)
}

// SaveFile writes s to path in the format given by its extension.
func SaveFile(s *belso.Schema, path string, opts ...Option) (err error) {
	c, ok := CodecFor(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
	}
	data, err := Marshal(c, s, opts...)
	if err != nil {
		return fmt.Errorf("format: encode %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err = f.Write(data); err != nil {
		return err
	}
	belso.Logger().Debug("schema saved", "path", path, "codec", c.String(), "schema", s.Name())
	return nil
}

// LoadFile reads a schema from path in the format given by its extension.
// Read errors are returned; content that does not decode yields a Fallback
// result.
func LoadFile(path string, opts ...Option) (belso.Result[*belso.Schema], error) {
	c, ok := CodecFor(path)
	if !ok {
		return belso.Result[*belso.Schema]{}, fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return belso.Result[*belso.Schema]{}, err
	}
	res := Decode(c, data, opts...)
	belso.Logger().Debug("schema loaded", "path", path, "codec", c.String(), "outcome", res.Outcome.String())
	return res, nil
}
