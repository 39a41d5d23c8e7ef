package translator

import (
	"bytes"

	js "github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"

	"github.com/reoring/belso"
	"github.com/reoring/belso/dialect/jsonschema"
	"github.com/reoring/belso/dialect/openai"
	"github.com/reoring/belso/format"
	"github.com/reoring/belso/internal/jsonutil"
)

// Detect guesses the dialect of in. It never fails; inputs it cannot place
// are Unknown. The first matching rule wins:
//
//  1. *belso.Schema                              Canonical
//  2. *genai.Schema                              Google
//  3. openai.Model, *openai.ResponseFormat,
//     or a {type: json_schema, json_schema} map  OpenAI
//  4. *format.XMLDocument or text in <...>       XML
//  5. a mapping with a json-schema.org $schema   Anthropic or LangChain
//  6. {type: object, properties} mapping         Ollama
//  7. {name, fields: [...]} or *format.Document  JSON
//
// Text holding a JSON object is parsed and checked as a mapping. YAML text is
// never detected; name it with From(YAML).
func Detect(in any) Dialect {
	switch t := in.(type) {
	case nil:
		return Unknown
	case *belso.Schema, belso.Schema:
		return Canonical
	case *genai.Schema, genai.Schema:
		return Google
	case openai.Model, *openai.Model, *openai.ResponseFormat, openai.ResponseFormat:
		return OpenAI
	case *format.XMLDocument, format.XMLDocument:
		return XML
	case *format.Document, format.Document:
		return JSON
	case *js.Schema:
		if t == nil {
			return Unknown
		}
		return detectJSONSchema(t.Schema, t.Type, len(t.Properties) > 0)
	case []byte:
		return detectText(t)
	case string:
		return detectText([]byte(t))
	case map[string]any:
		return detectMap(t)
	}
	return Unknown
}

func detectText(raw []byte) Dialect {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Unknown
	}
	if trimmed[0] == '<' && trimmed[len(trimmed)-1] == '>' {
		return XML
	}
	m, err := jsonutil.UnmarshalObject(trimmed)
	if err != nil {
		return Unknown
	}
	return detectMap(m)
}

func detectMap(m map[string]any) Dialect {
	if typ, _ := m["type"].(string); typ == openai.TypeJSONSchema {
		if _, ok := m["json_schema"].(map[string]any); ok {
			return OpenAI
		}
	}
	uri, _ := m["$schema"].(string)
	typ, _ := m["type"].(string)
	props, _ := m["properties"].(map[string]any)
	if d := detectJSONSchema(uri, typ, props != nil); d != Unknown {
		return d
	}
	if _, ok := m["name"].(string); ok {
		if _, ok := m["fields"].([]any); ok {
			return JSON
		}
	}
	return Unknown
}

func detectJSONSchema(uri, typ string, hasProps bool) Dialect {
	if uri != "" {
		if f, ok := jsonschema.FlavorForURI(uri); ok {
			return flavorDialect(f)
		}
	}
	if typ == "object" && hasProps {
		return Ollama
	}
	return Unknown
}

func flavorDialect(f jsonschema.Flavor) Dialect {
	switch f {
	case jsonschema.Ollama:
		return Ollama
	case jsonschema.Mistral:
		return Mistral
	case jsonschema.LangChain:
		return LangChain
	case jsonschema.HuggingFace:
		return HuggingFace
	}
	return Anthropic
}
