package format

// Option configures a text codec.
type Option func(*options)

type options struct {
	prefix string
	indent string
}

func buildOptions(opts []Option) options {
	o := options{indent: "  "}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithRootPrefix prefixes the root schema name on encode and decode. The
// prefix is never applied twice and never reaches nested schemas.
func WithRootPrefix(p string) Option { return func(o *options) { o.prefix = p } }

// WithIndent sets the indentation of JSON output. An empty string produces
// compact output.
func WithIndent(s string) Option { return func(o *options) { o.indent = s } }
