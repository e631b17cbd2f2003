package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// listsCommand prints the lists that can be built.
func (c *CLI) listsCommand() *cobra.Command {
	var listsFile string

	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show the lists that can be built",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog(listsFile)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(cat.Lists))
			for _, l := range cat.Lists {
				rows = append(rows, []string{l.Name, l.HeaderTitle(), "Category:" + l.Root, l.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Title", "Root", "Description"}, rows))
			printNextStep("Build one", appName+" build <name>")
			return nil
		},
	}

	cmd.Flags().StringVar(&listsFile, "lists", "", "extra TOML file with list definitions")
	return cmd
}
