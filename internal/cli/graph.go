package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundledeps/pkg/render"
	"github.com/matzehuels/bundledeps/pkg/render/nodelink"
)

func (c *CLI) graphCommand() *cobra.Command {
	var (
		f        runFlags
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph <manifest>",
		Short: "Render the module graph as DOT or SVG",
		Long: `Graph renders the resolved module graph. Edges with diagnostics are drawn
dashed and red. Without -o the DOT source is written to stdout.`,
		Example: `  bundledeps graph bundle.toml > modules.dot
  bundledeps graph bundle.toml -o modules.svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.applyConfig(cmd, c.Config)

			if format == "" {
				format = render.FormatDOT
				if output != "" {
					fromPath, err := render.FormatFromPath(output)
					if err != nil {
						return err
					}
					format = fromPath
				}
			}
			if err := render.ValidateFormat(format); err != nil {
				return err
			}

			res, err := c.runPipeline(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}

			dot := nodelink.ToDOT(res.Graph, nodelink.Options{
				Report:   res.Report,
				Runtime:  res.Runtime,
				Detailed: detailed,
			})
			data, err := nodelink.Render(cmd.Context(), dot, format)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered %d modules", res.Stats.Modules)
			printFile(output)
			return nil
		},
	}

	addRunFlags(cmd, &f)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (format from extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot, svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label edges with referenced exports")
	return cmd
}
