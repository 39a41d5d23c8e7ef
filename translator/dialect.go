package translator

import (
	"fmt"
	"strings"

	"github.com/reoring/belso"
	"github.com/reoring/belso/i18n"
)

// Dialect tags a schema representation.
type Dialect int

const (
	Unknown Dialect = iota
	Canonical
	Google
	OpenAI
	Anthropic
	Ollama
	HuggingFace
	Mistral
	LangChain
	JSON
	XML
	YAML

	dialectCount
)

var dialectNames = [dialectCount]string{
	Unknown:     "unknown",
	Canonical:   "belso",
	Google:      "google",
	OpenAI:      "openai",
	Anthropic:   "anthropic",
	Ollama:      "ollama",
	HuggingFace: "huggingface",
	Mistral:     "mistral",
	LangChain:   "langchain",
	JSON:        "json",
	XML:         "xml",
	YAML:        "yaml",
}

func (d Dialect) String() string {
	if d.valid() || d == Unknown {
		return dialectNames[d]
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

func (d Dialect) valid() bool { return d > Unknown && d < dialectCount }

// Dialects lists every known dialect, Unknown excluded.
func Dialects() []Dialect {
	out := make([]Dialect, 0, dialectCount-1)
	for d := Canonical; d < dialectCount; d++ {
		out = append(out, d)
	}
	return out
}

// ParseDialect resolves a dialect by name, case-insensitively. "canonical"
// and "gemini" are accepted as aliases.
func ParseDialect(name string) (Dialect, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "canonical":
		return Canonical, nil
	case "gemini":
		return Google, nil
	case "yml":
		return YAML, nil
	}
	for _, d := range Dialects() {
		if dialectNames[d] == n {
			return d, nil
		}
	}
	return Unknown, &UnsupportedDialectError{Name: name}
}

// UnsupportedDialectError is returned when a translation names a dialect that
// does not exist or a source whose dialect cannot be detected.
type UnsupportedDialectError struct {
	Name string
}

func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("unsupported dialect: %q", e.Name)
}

func (e *UnsupportedDialectError) Issue() belso.Issue {
	return belso.Issue{
		Code:    belso.CodeUnsupportedDialect,
		Message: i18n.T(belso.CodeUnsupportedDialect, map[string]string{"dialect": e.Name}),
		Params:  map[string]any{"dialect": e.Name},
	}
}

var _ belso.ValidationError = (*UnsupportedDialectError)(nil)
