package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) exportsCommand() *cobra.Command {
	var (
		f      runFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "exports <manifest>",
		Short: "Show which exports of each module are used",
		Long: `Exports prints, for every module some dependency resolves to, the export
names consumed by its importers. "*" means the whole exports object is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.applyConfig(cmd, c.Config)
			res, err := c.runPipeline(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Usage)
			}

			fmt.Fprintln(stdout, StyleTitle.Render(res.Manifest.Name))
			for _, id := range res.Usage.ModuleIDs() {
				u := res.Usage[id]
				printKeyValue(id, strings.Join(u.Names(), ", "))
				printDetail("%d referrers", u.Referrers)
			}
			return nil
		},
	}

	addRunFlags(cmd, &f)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print usage as JSON")
	return cmd
}
