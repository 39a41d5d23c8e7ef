package translator

import "github.com/reoring/belso/format"

// Option configures Translate, Standardize, Save and Load.
type Option func(*options)

type options struct {
	from   Dialect
	prefix string
	indent *string
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// From names the source dialect and skips detection.
func From(d Dialect) Option { return func(o *options) { o.from = d } }

// WithRootPrefix prefixes the root schema name in the text codecs.
func WithRootPrefix(p string) Option { return func(o *options) { o.prefix = p } }

// WithIndent sets the indent of written JSON and XML files.
func WithIndent(s string) Option { return func(o *options) { o.indent = &s } }

func (o options) format() []format.Option {
	out := []format.Option{format.WithRootPrefix(o.prefix)}
	if o.indent != nil {
		out = append(out, format.WithIndent(*o.indent))
	}
	return out
}
