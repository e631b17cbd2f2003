package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	wlio "github.com/matzehuels/wikilist/pkg/io"
	"github.com/matzehuels/wikilist/pkg/saves"
)

// savesCommand manages stored manual trees.
func (c *CLI) savesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saves",
		Short: "Manage stored category trees",
		Long: `Manage the trees kept in the save store.

Every overwrite keeps a backup of the previous version. The number of
backups per save is limited by WIKILIST_MAX_BACKUPS.`,
	}

	cmd.AddCommand(c.savesListCommand())
	cmd.AddCommand(c.savesShowCommand())
	cmd.AddCommand(c.savesImportCommand())
	cmd.AddCommand(c.savesExportCommand())
	cmd.AddCommand(c.savesDeleteCommand())
	cmd.AddCommand(c.savesBackupsCommand())
	cmd.AddCommand(c.savesRestoreCommand())

	return cmd
}

// withSaves opens the save store for the duration of fn.
func (c *CLI) withSaves(cmd *cobra.Command, fn func(ctx context.Context, store saves.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := c.openSaves(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

func (c *CLI) savesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSaves(cmd, func(ctx context.Context, store saves.Store) error {
				infos, err := store.List(ctx)
				if err != nil {
					return err
				}
				if len(infos) == 0 {
					printInfo("No saves yet")
					printNextStep("Import one", appName+" saves import <file>")
					return nil
				}
				rows := make([][]string, 0, len(infos))
				for _, s := range infos {
					rows = append(rows, []string{s.ID, s.Title, s.UpdatedAt.Local().Format("2006-01-02 15:04"), formatSize(s.Size)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Updated", "Size"}, rows))
				return nil
			})
		},
	}
}

func (c *CLI) savesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored tree as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSaves(cmd, func(ctx context.Context, store saves.Store) error {
				t, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return wlio.WriteJSON(t, cmd.OutOrStdout())
			})
		},
	}
}

func (c *CLI) savesImportCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a JSON tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := wlio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if id == "" {
				id = saves.NewID()
			}
			return c.withSaves(cmd, func(ctx context.Context, store saves.Store) error {
				info, err := store.Put(ctx, id, t)
				if err != nil {
					return err
				}
				printSuccess("Saved %s", info.Title)
				printDetail("ID: %s", info.ID)
				printNextStep("Render it", appName+" manual "+info.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "save ID (default: a new random ID)")
	return cmd
}

func (c *CLI) savesExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a stored tree to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSaves(cmd, func(ctx context.Context, store saves.Store) error {
				t, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					return wlio.WriteJSON(t, cmd.OutOrStdout())
				}
				if err := wlio.ExportJSON(t, output); err != nil {
					return err
				}
				printFile(output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, gzip-compressed when ending in .gz (default stdout)")
	return cmd
}

func (c *CLI) savesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored tree and its backups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSaves(cmd, func(ctx context.Context, store saves.Store) error {
				if err := store.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) savesBackupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backups <id>",
		Short: "List the backups of a stored tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSaves(cmd, func(ctx context.Context, store saves.Store) error {
				backups, err := store.Backups(ctx, args[0])
				if err != nil {
					return err
				}
				if len(backups) == 0 {
					printInfo("No backups of %s", args[0])
					return nil
				}
				rows := make([][]string, 0, len(backups))
				for _, b := range backups {
					rows = append(rows, []string{b.Name, b.CreatedAt.Local().Format("2006-01-02 15:04:05"), formatSize(b.Size)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Backup", "Created", "Size"}, rows))
				printNextStep("Restore one", appName+" saves restore "+args[0]+" <backup>")
				return nil
			})
		},
	}
}

func (c *CLI) savesRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id> <backup>",
		Short: "Replace a stored tree with one of its backups",
		Long: `Replace a stored tree with one of its backups.

The current version is backed up first, so a restore can be undone.
The backup may be given by name or by its position in "saves backups"
(1 is the newest).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return c.withSaves(cmd, func(ctx context.Context, store saves.Store) error {
				name, err := resolveBackup(ctx, store, id, args[1])
				if err != nil {
					return err
				}
				t, err := store.Restore(ctx, id, name)
				if err != nil {
					return err
				}
				printSuccess("Restored %s from %s", t.Title(), name)
				return nil
			})
		},
	}
}

// resolveBackup maps a 1-based backup position to its name. Other values
// are returned unchanged.
func resolveBackup(ctx context.Context, store saves.Store, id, ref string) (string, error) {
	if strings.HasPrefix(ref, "backup_") {
		return ref, nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 {
		return ref, nil
	}
	backups, err := store.Backups(ctx, id)
	if err != nil {
		return "", err
	}
	if n > len(backups) {
		return "", wlerrors.New(wlerrors.ErrCodeInvalidInput, "%s has %d backups", id, len(backups))
	}
	return backups[n-1].Name, nil
}
