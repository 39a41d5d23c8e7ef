package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates refer
// to data keys as {key}; keys missing from data are left as written.
type dictTranslator struct{ lang string }

var dicts = map[string]map[string]string{
	"en": {
		"invalid_type":        "invalid type: expected {expected}, got {actual}",
		"required":            "required field missing: {field}",
		"parse_error":         "parse error",
		"too_small":           "too few items",
		"too_big":             "too many items",
		"duplicate_field":     "duplicate field: {field}",
		"unsupported_dialect": "unsupported dialect: {dialect}",
	},
	"ja": {
		"invalid_type":        "型が不正です: {expected} が必要ですが {actual} でした",
		"required":            "必須フィールドが不足しています: {field}",
		"parse_error":         "解析エラー",
		"too_small":           "要素数が少なすぎます",
		"too_big":             "要素数が多すぎます",
		"duplicate_field":     "フィールドが重複しています: {field}",
		"unsupported_dialect": "未対応のダイアレクトです: {dialect}",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dicts[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
