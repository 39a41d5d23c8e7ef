package format

import (
	"encoding/xml"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/reoring/belso"
)

const errorXML = `<schema name="ErrorSchema"><fields></fields></schema>`

// XMLDocument is the root element of the XML codec:
//
//	<schema name="House">
//	  <fields>
//	    <field name="rooms" type="list" required="true" items_type="dict">
//	      <description>Rooms of the house</description>
//	      <items_range min="1" max="20"/>
//	      <items_schema name="Room">...</items_schema>
//	    </field>
//	  </fields>
//	</schema>
type XMLDocument struct {
	XMLName xml.Name   `xml:"schema"`
	Name    string     `xml:"name,attr"`
	Fields  []XMLField `xml:"fields>field"`
}

// XMLNested is a nested <schema> or <items_schema> element.
type XMLNested struct {
	Name   string     `xml:"name,attr"`
	Fields []XMLField `xml:"fields>field"`
}

// XMLField is one <field> element. Scalar values (default, enum members,
// bounds) are text: strings as written, everything else as JSON.
type XMLField struct {
	Name            string     `xml:"name,attr"`
	Type            string     `xml:"type,attr"`
	Required        string     `xml:"required,attr,omitempty"`
	ItemsType       string     `xml:"items_type,attr,omitempty"`
	Description     string     `xml:"description"`
	Default         *XMLValue  `xml:"default,omitempty"`
	Enum            []XMLValue `xml:"enum>value,omitempty"`
	Range           *XMLBounds `xml:"range,omitempty"`
	ExclusiveRange  *XMLBounds `xml:"exclusive_range,omitempty"`
	LengthRange     *XMLBounds `xml:"length_range,omitempty"`
	ItemsRange      *XMLBounds `xml:"items_range,omitempty"`
	PropertiesRange *XMLBounds `xml:"properties_range,omitempty"`
	Regex           string     `xml:"regex,omitempty"`
	MultipleOf      string     `xml:"multiple_of,omitempty"`
	Format          string     `xml:"format,omitempty"`
	Schema          *XMLNested `xml:"schema,omitempty"`
	ItemsSchema     *XMLNested `xml:"items_schema,omitempty"`
}

// XMLValue is a default or enum member. Type is "str" when a string is held
// by a field whose values are otherwise read as JSON.
type XMLValue struct {
	Type string `xml:"type,attr,omitempty"`
	Text string `xml:",chardata"`
}

// XMLBounds carries the min and max attributes of a range element.
type XMLBounds struct {
	Min string `xml:"min,attr,omitempty"`
	Max string `xml:"max,attr,omitempty"`
}

// EncodeXML encodes s as indented XML text. On failure the value is the
// ErrorSchema placeholder with no fields.
func EncodeXML(s *belso.Schema, opts ...Option) (res belso.Result[string]) {
	o := buildOptions(opts)
	d := belso.NewDiag("xml")
	defer func() {
		if r := recover(); r != nil {
			res = belso.Failed(errorXML, d, fmt.Errorf("xml encode: panic recovered: %v", r))
		}
	}()
	out, err := marshalXML(s, o)
	if err != nil {
		return belso.Failed(errorXML, d, fmt.Errorf("xml encode: %w", err))
	}
	return belso.Done(string(out), d)
}

// MarshalXML encodes s as XML text and reports failures as errors.
func MarshalXML(s *belso.Schema, opts ...Option) ([]byte, error) {
	return marshalXML(s, buildOptions(opts))
}

func marshalXML(s *belso.Schema, o options) ([]byte, error) {
	doc, err := ToDocument(s, o.prefix)
	if err != nil {
		return nil, err
	}
	x, err := ToXML(doc)
	if err != nil {
		return nil, err
	}
	return xml.MarshalIndent(x, "", o.indent)
}

// DecodeXML reads XML text ([]byte, string) or an *XMLDocument. Failures
// yield belso.FallbackSchema with Outcome Fallback.
func DecodeXML(in any, opts ...Option) (res belso.Result[*belso.Schema]) {
	o := buildOptions(opts)
	d := belso.NewDiag("xml")
	defer func() {
		if r := recover(); r != nil {
			res = belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("xml decode: panic recovered: %v", r))
		}
	}()
	x, err := parseXML(in)
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("xml decode: %w", err))
	}
	doc, err := FromXML(x)
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("xml decode: %w", err))
	}
	s, err := FromDocument(doc, o.prefix, d)
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("xml decode: %w", err))
	}
	return belso.Done(s, d)
}

func parseXML(in any) (*XMLDocument, error) {
	var raw []byte
	switch t := in.(type) {
	case *XMLDocument:
		if t == nil {
			return nil, fmt.Errorf("nil document")
		}
		return t, nil
	case XMLDocument:
		return &t, nil
	case []byte:
		raw = t
	case string:
		raw = []byte(t)
	default:
		return nil, fmt.Errorf("unsupported input %T", in)
	}
	var x XMLDocument
	if err := xml.Unmarshal(raw, &x); err != nil {
		return nil, err
	}
	return &x, nil
}

// ToXML converts a Document into its XML element tree.
func ToXML(doc *Document) (*XMLDocument, error) {
	fields, err := toXMLFields(doc.Fields)
	if err != nil {
		return nil, err
	}
	return &XMLDocument{Name: doc.Name, Fields: fields}, nil
}

func toXMLNested(doc *Document) (*XMLNested, error) {
	if doc == nil {
		return nil, nil
	}
	fields, err := toXMLFields(doc.Fields)
	if err != nil {
		return nil, err
	}
	return &XMLNested{Name: doc.Name, Fields: fields}, nil
}

func toXMLFields(fds []FieldDoc) ([]XMLField, error) {
	out := make([]XMLField, 0, len(fds))
	for _, fd := range fds {
		xf := XMLField{
			Name:        fd.Name,
			Type:        fd.Type,
			Required:    strconv.FormatBool(fd.IsRequired()),
			ItemsType:   fd.ItemsType,
			Description: fd.Description,
			Regex:       fd.Regex,
			Format:      fd.Format,
		}
		if fd.Default != nil {
			v, err := valueXML(fd.Type, fd.Default)
			if err != nil {
				return nil, fmt.Errorf("%s: default: %w", fd.Name, err)
			}
			xf.Default = &v
		}
		for _, e := range fd.Enum {
			v, err := valueXML(fd.Type, e)
			if err != nil {
				return nil, fmt.Errorf("%s: enum: %w", fd.Name, err)
			}
			xf.Enum = append(xf.Enum, v)
		}
		xf.Range = rangeXML(fd.Range)
		xf.ExclusiveRange = rangeXML(fd.ExclusiveRange)
		xf.LengthRange = boundsXML(fd.LengthRange)
		xf.ItemsRange = boundsXML(fd.ItemsRange)
		xf.PropertiesRange = boundsXML(fd.PropertiesRange)
		if fd.MultipleOf != nil {
			xf.MultipleOf = formatFloat(*fd.MultipleOf)
		}
		var err error
		if xf.Schema, err = toXMLNested(fd.Schema); err != nil {
			return nil, err
		}
		if xf.ItemsSchema, err = toXMLNested(fd.ItemsSchema); err != nil {
			return nil, err
		}
		out = append(out, xf)
	}
	return out, nil
}

// FromXML converts an XML element tree into a Document.
func FromXML(x *XMLDocument) (*Document, error) {
	fields, err := fromXMLFields(x.Fields)
	if err != nil {
		return nil, err
	}
	return &Document{Name: x.Name, Fields: fields}, nil
}

func fromXMLNested(x *XMLNested) (*Document, error) {
	if x == nil {
		return nil, nil
	}
	fields, err := fromXMLFields(x.Fields)
	if err != nil {
		return nil, err
	}
	return &Document{Name: x.Name, Fields: fields}, nil
}

func fromXMLFields(xfs []XMLField) ([]FieldDoc, error) {
	out := make([]FieldDoc, 0, len(xfs))
	for _, xf := range xfs {
		fd := FieldDoc{
			Name:        xf.Name,
			Type:        xf.Type,
			ItemsType:   xf.ItemsType,
			Description: xf.Description,
			Regex:       xf.Regex,
			Format:      xf.Format,
		}
		if xf.Required != "" {
			r, err := strconv.ParseBool(xf.Required)
			if err != nil {
				return nil, fmt.Errorf("%s: required: %w", xf.Name, err)
			}
			fd.Required = &r
		}
		if xf.Default != nil {
			fd.Default = xmlValue(xf.Type, *xf.Default)
		}
		for _, e := range xf.Enum {
			fd.Enum = append(fd.Enum, xmlValue(xf.Type, e))
		}
		var err error
		if fd.Range, err = rangeDoc(xf.Range); err != nil {
			return nil, fmt.Errorf("%s: range: %w", xf.Name, err)
		}
		if fd.ExclusiveRange, err = rangeDoc(xf.ExclusiveRange); err != nil {
			return nil, fmt.Errorf("%s: exclusive_range: %w", xf.Name, err)
		}
		if fd.LengthRange, err = boundsDoc(xf.LengthRange); err != nil {
			return nil, fmt.Errorf("%s: length_range: %w", xf.Name, err)
		}
		if fd.ItemsRange, err = boundsDoc(xf.ItemsRange); err != nil {
			return nil, fmt.Errorf("%s: items_range: %w", xf.Name, err)
		}
		if fd.PropertiesRange, err = boundsDoc(xf.PropertiesRange); err != nil {
			return nil, fmt.Errorf("%s: properties_range: %w", xf.Name, err)
		}
		if xf.MultipleOf != "" {
			m, err := strconv.ParseFloat(xf.MultipleOf, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: multiple_of: %w", xf.Name, err)
			}
			fd.MultipleOf = &m
		}
		if fd.Schema, err = fromXMLNested(xf.Schema); err != nil {
			return nil, err
		}
		if fd.ItemsSchema, err = fromXMLNested(xf.ItemsSchema); err != nil {
			return nil, err
		}
		out = append(out, fd)
	}
	return out, nil
}

func isStringType(typ string) bool {
	k, _ := belso.ParseKind(typ)
	return k == belso.KindString
}

// valueXML renders strings as written and every other value as JSON. A
// string held by a non-str field is marked with type="str".
func valueXML(typ string, v any) (XMLValue, error) {
	if s, ok := v.(string); ok {
		x := XMLValue{Text: s}
		if !isStringType(typ) {
			x.Type = "str"
		}
		return x, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return XMLValue{}, err
	}
	return XMLValue{Text: string(b)}, nil
}

// xmlValue reverses valueXML. Unmarked text of a non-str field is parsed as
// JSON and falls back to the text itself.
func xmlValue(typ string, x XMLValue) any {
	if x.Type == "str" || isStringType(typ) {
		return x.Text
	}
	var v any
	if err := json.Unmarshal([]byte(x.Text), &v); err != nil {
		return x.Text
	}
	return v
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func rangeXML(r *RangeDoc) *XMLBounds {
	if r == nil {
		return nil
	}
	x := &XMLBounds{}
	if r.Min != nil {
		x.Min = formatFloat(*r.Min)
	}
	if r.Max != nil {
		x.Max = formatFloat(*r.Max)
	}
	return x
}

func boundsXML(b *BoundsDoc) *XMLBounds {
	if b == nil {
		return nil
	}
	x := &XMLBounds{}
	if b.Min != nil {
		x.Min = strconv.Itoa(*b.Min)
	}
	if b.Max != nil {
		x.Max = strconv.Itoa(*b.Max)
	}
	return x
}

func rangeDoc(x *XMLBounds) (*RangeDoc, error) {
	if x == nil {
		return nil, nil
	}
	r := &RangeDoc{}
	if x.Min != "" {
		v, err := strconv.ParseFloat(x.Min, 64)
		if err != nil {
			return nil, err
		}
		r.Min = &v
	}
	if x.Max != "" {
		v, err := strconv.ParseFloat(x.Max, 64)
		if err != nil {
			return nil, err
		}
		r.Max = &v
	}
	return r, nil
}

func boundsDoc(x *XMLBounds) (*BoundsDoc, error) {
	if x == nil {
		return nil, nil
	}
	b := &BoundsDoc{}
	if x.Min != "" {
		v, err := strconv.Atoi(x.Min)
		if err != nil {
			return nil, err
		}
		b.Min = &v
	}
	if x.Max != "" {
		v, err := strconv.Atoi(x.Max)
		if err != nil {
			return nil, err
		}
		b.Max = &v
	}
	return b, nil
}
