package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/belso"
	"github.com/reoring/belso/display"
	"github.com/reoring/belso/translator"
)

func dialectList() string {
	names := make([]string, 0)
	for _, d := range translator.Dialects() {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}

func newDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range translator.Dialects() {
				fmt.Fprintln(cmd.OutOrStdout(), d.String())
			}
			return nil
		},
	}
}

func newDetectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Print the dialect of a schema file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), translator.Detect(in).String())
			return nil
		},
	}
}

type translateOptions struct {
	to     string
	from   string
	prefix string
	output string
}

func (o *translateOptions) bind(cmd *cobra.Command, withTarget bool) {
	if withTarget {
		cmd.Flags().StringVarP(&o.to, "to", "t", "", fmt.Sprintf("target dialect (%s)", dialectList()))
	}
	cmd.Flags().StringVarP(&o.from, "from", "f", "", "source dialect (default: detected)")
	cmd.Flags().StringVar(&o.prefix, "root-prefix", "", "prefix for the root schema name in json, xml and yaml")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default: stdout)")
}

func newTranslateCmd(a *app) *cobra.Command {
	opts := &translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate <file>",
		Short: "Translate a schema into another dialect",
		Example: `  belso translate house.yaml --to openai
  belso translate gemini.json --from google --to anthropic -o anthropic.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := a.target(opts.to)
			if err != nil {
				return err
			}
			return runTranslate(cmd, a, args[0], to, opts)
		},
	}
	opts.bind(cmd, true)
	return cmd
}

func newStandardizeCmd(a *app) *cobra.Command {
	opts := &translateOptions{}
	cmd := &cobra.Command{
		Use:   "standardize <file>",
		Short: "Decode a schema into the canonical belso document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStandardize(cmd, a, args[0], opts)
		},
	}
	opts.bind(cmd, false)
	cmd.Flags().Lookup("root-prefix").Usage = "prefix for the root schema name"
	return cmd
}

// runStandardize applies the root prefix to every source. The text codecs
// apply it while decoding; other dialects are renamed afterwards.
func runStandardize(cmd *cobra.Command, a *app, path string, opts *translateOptions) error {
	in, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	topts, err := a.translateOptions(opts.from, opts.prefix)
	if err != nil {
		return err
	}
	res, err := translator.Standardize(in, topts...)
	if err != nil {
		return err
	}
	if err := report(path, res); err != nil {
		return err
	}
	s := res.Value
	if prefix := a.rootPrefix(opts.prefix); prefix != "" {
		src, err := a.source(opts.from, in)
		if err != nil {
			return err
		}
		switch src {
		case translator.JSON, translator.XML, translator.YAML:
		default:
			s = s.WithName(prefix + s.Name())
		}
	}
	out, err := render(s, a.indent())
	if err != nil {
		return err
	}
	return writeOutput(opts.output, out, cmd.OutOrStdout())
}

func runTranslate(cmd *cobra.Command, a *app, path string, to translator.Dialect, opts *translateOptions) error {
	in, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	topts, err := a.translateOptions(opts.from, opts.prefix)
	if err != nil {
		return err
	}
	res, err := translator.Translate(in, to, topts...)
	if err != nil {
		return err
	}
	if err := report(path, res); err != nil {
		return err
	}
	out, err := render(res.Value, a.indent())
	if err != nil {
		return err
	}
	return writeOutput(opts.output, out, cmd.OutOrStdout())
}

func newShowCmd(a *app) *cobra.Command {
	var (
		from  string
		width int
	)
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a schema as tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := standardize(cmd, a, args[0], from)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return display.Render(w, s, display.WithColor(a.useColor(w)), display.WithMaxWidth(width))
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "source dialect (default: detected)")
	cmd.Flags().IntVar(&width, "max-width", 60, "truncate cells wider than this (0 disables)")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "validate <schema-file> <data-file>",
		Short: "Check a JSON document against a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := standardize(cmd, a, args[0], from)
			if err != nil {
				return err
			}
			data, err := readInput(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if _, err := translator.Validate(data, s); err != nil {
				if iss, ok := belso.AsIssues(err); ok {
					for _, it := range iss {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", orRoot(it.Path), it.Code, it.Message)
					}
				}
				return fmt.Errorf("%s: invalid: %w", args[1], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid against %s\n", args[1], s.Name())
			return nil
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "schema dialect (default: detected)")
	return cmd
}

func orRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func standardize(cmd *cobra.Command, a *app, path, from string) (*belso.Schema, error) {
	in, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	topts, err := a.translateOptions(from, "")
	if err != nil {
		return nil, err
	}
	res, err := translator.Standardize(in, topts...)
	if err != nil {
		return nil, err
	}
	if err := report(path, res); err != nil {
		return nil, err
	}
	return res.Value, nil
}
