package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/belso/translator"
)

type convertOptions struct {
	to     string
	from   string
	prefix string
	outDir string
	jobs   int
}

func newConvertCmd(a *app) *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:     "convert <file>...",
		Short:   "Translate many schema files in parallel",
		Example: `  belso convert schemas/*.json --to yaml --out-dir out -j 4`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cmd, a, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.to, "to", "t", "", fmt.Sprintf("target dialect (%s)", dialectList()))
	cmd.Flags().StringVarP(&opts.from, "from", "f", "", "source dialect (default: detected per file)")
	cmd.Flags().StringVar(&opts.prefix, "root-prefix", "", "prefix for the root schema name in json, xml and yaml")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", ".", "output directory")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "parallel workers (default: GOMAXPROCS)")
	return cmd
}

func runConvert(ctx context.Context, cmd *cobra.Command, a *app, files []string, opts *convertOptions) error {
	to, err := a.target(opts.to)
	if err != nil {
		return err
	}
	topts, err := a.translateOptions(opts.from, opts.prefix)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := opts.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// indexes are unique per goroutine
	outputs := make([]string, len(files))
	var (
		mu       sync.Mutex
		failures []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := convertOne(path, to, opts.outDir, a.indent(), topts)
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", path, err))
				mu.Unlock()
				return nil
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, out := range outputs {
		if out != "" {
			fmt.Fprintln(w, out)
		}
	}
	if len(failures) > 0 {
		for _, f := range failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", f)
		}
		return fmt.Errorf("failed to convert %d of %d file(s)", len(failures), len(files))
	}
	return nil
}

func convertOne(path string, to translator.Dialect, outDir, indent string, topts []translator.Option) (string, error) {
	in, err := readInput(path, nil)
	if err != nil {
		return "", err
	}
	res, err := translator.Translate(in, to, topts...)
	if err != nil {
		return "", err
	}
	if err := report(path, res); err != nil {
		return "", err
	}
	data, err := render(res.Value, indent)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := base + "." + to.String() + extension(to)
	if extension(to) == "."+to.String() {
		name = base + extension(to)
	}
	out := filepath.Join(outDir, name)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", err
	}
	return out, nil
}
