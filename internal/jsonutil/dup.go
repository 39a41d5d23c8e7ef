package jsonutil

import (
	"bytes"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// DuplicateKeys reports the JSON Pointer of every object key that appears
// more than once in its object, in document order. Decoding keeps the last
// value of such keys. Parsing stops at the first syntax error.
func DuplicateKeys(raw []byte) []string {
	var dups []string
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var walk func(ptr string) error
	walk = func(ptr string) error {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		d, ok := tok.(json.Delim)
		if !ok {
			return nil
		}
		switch d {
		case '{':
			seen := make(map[string]struct{})
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := kt.(string)
				next := ptr + "/" + escape(key)
				if _, dup := seen[key]; dup {
					dups = append(dups, next)
				}
				seen[key] = struct{}{}
				if err := walk(next); err != nil {
					return err
				}
			}
		case '[':
			for i := 0; dec.More(); i++ {
				if err := walk(ptr + "/" + strconv.Itoa(i)); err != nil {
					return err
				}
			}
		}
		_, err = dec.Token()
		return err
	}
	_ = walk("")
	return dups
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escape(s string) string { return pointerEscaper.Replace(s) }
