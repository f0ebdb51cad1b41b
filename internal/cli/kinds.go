package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bundledeps/pkg/dependency"
)

// kindInfo describes one registered dependency kind.
type kindInfo struct {
	ID       string `json:"id"`
	Type     string `json:"type,omitempty"`
	Category string `json:"category,omitempty"`
}

// registeredKinds lists the registry's kinds sorted by identifier. Kinds
// that are not dependencies are listed with their identifier only.
func (c *CLI) registeredKinds() ([]kindInfo, error) {
	ids := c.Registry.Identifiers()
	out := make([]kindInfo, 0, len(ids))
	for _, id := range ids {
		factory, err := c.Registry.Lookup(id)
		if err != nil {
			return nil, err
		}
		info := kindInfo{ID: id}
		if d, ok := factory().(dependency.Dependency); ok {
			info.Type = d.Type()
			info.Category = d.Category()
		}
		out = append(out, info)
	}
	return out, nil
}

func (c *CLI) kindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the registered dependency kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := c.registeredKinds()
			if err != nil {
				return err
			}
			for _, k := range kinds {
				printKeyValue(k.Type, k.ID)
				if k.Category != "" {
					printDetail("category: %s", k.Category)
				}
			}
			return nil
		},
	}
}
