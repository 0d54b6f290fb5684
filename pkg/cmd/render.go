package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/folio-site/folio/pkg/render"
)

// renderResult is the output of folio render.
type renderResult struct {
	Source string `json:"source"`
	Engine string `json:"engine"`
	HTML   string `json:"html"`
}

func (r renderResult) Text() string { return r.HTML }

func newRenderCmd() *cobra.Command {
	var (
		engine    engineFlag
		trace     bool
		noClasses bool
		noCache   bool
	)
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render markdown to an HTML fragment",
		Long: `Render a markdown file (or stdin) to an HTML fragment.

--trace prints the fragment after every pipeline step to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, markdown, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			name := engine.or(cfg.Engine)

			var eng render.Engine
			if trace || noClasses {
				var opts []render.Option
				if noClasses {
					opts = append(opts, render.WithoutClasses())
				}
				if trace {
					w := cmd.ErrOrStderr()
					opts = append(opts, render.WithTrace(func(step, html string) {
						fmt.Fprintf(w, "== %s ==\n%s\n", step, html)
					}))
				}
				if eng, err = siteEngine(name, opts...); err != nil {
					return err
				}
			} else {
				var closeEngine func() error
				if eng, closeEngine, err = openEngine(name, noCache); err != nil {
					return err
				}
				defer closeEngine()
			}

			html, err := eng.Convert(markdown)
			if err != nil {
				return fmt.Errorf("render failed: %w", err)
			}
			return printResult(cmd, renderResult{Source: source, Engine: name, HTML: html})
		},
	}
	cmd.Flags().Var(&engine, "engine", "Markdown engine (site|goldmark)")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print the fragment after each pipeline step")
	cmd.Flags().BoolVar(&noClasses, "no-classes", false, "Emit bare tags without CSS classes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the render cache")
	return cmd
}

// readInput reads the file named by args[0], or stdin for "-" or no args.
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return "-", string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return args[0], string(data), nil
}
