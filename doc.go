// Package belso is a schema interchange engine.
//
// It keeps one canonical description of a data shape (a Schema of named,
// ordered fields with kinds, nesting, arrays and validation constraints) and
// translates it to and from the schema dialects used by LLM tooling and three
// text formats:
//
//   - dialect/google: Gemini response schemas (*genai.Schema)
//   - dialect/openai: OpenAI structured outputs (strict json_schema)
//   - dialect/jsonschema: Anthropic, Ollama, Mistral, LangChain and HuggingFace flavors
//   - format: JSON, YAML and XML documents
//
// The translator package detects the dialect of an input and dispatches; the
// root package holds the model and a structural validator.
//
// Design policy:
//   - Schemas are immutable values built with NewSchema; fields are built with
//     the constructors (String, Integer, Nested, ArrayOfSchema, ...) and
//     copy-on-write modifiers.
//   - Translation is best effort. Every encode and decode returns a Result
//     whose Outcome says whether information was dropped (Degraded) or a
//     placeholder was produced (Fallback).
//   - Validation is strict and returns typed errors carrying an Issue.
//
// Typical usage:
//
//	room := belso.MustSchema("Room",
//		belso.String("name"),
//		belso.Float("area").Optional(),
//	)
//	house := belso.MustSchema("House", belso.ArrayOfSchema("rooms", room).WithItems(belso.Count(1, 10)))
//
//	res, err := translator.Translate(house, translator.Google)
//	data, err := belso.Validate(`{"rooms":[{"name":"kitchen"}]}`, house)
package belso
