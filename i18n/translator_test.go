package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", nil); msg == "invalid_type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	defer SetLanguage("en")
	if msg := T("required", map[string]string{"field": "name"}); msg != "必須フィールドが不足しています: name" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
}

func TestTranslator_Interpolation(t *testing.T) {
	got := T("invalid_type", map[string]string{"expected": "float", "actual": "string"})
	if got != "invalid type: expected float, got string" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("unknown codes should echo the code, got %q", got)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(upper{})
	if got := T("required", nil); got != "X:required" {
		t.Fatalf("custom translator not used: %q", got)
	}
	SetTranslator(nil)
	if got := T("parse_error", nil); got != "parse error" {
		t.Fatalf("nil should restore the english dictionary, got %q", got)
	}
}
