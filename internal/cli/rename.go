package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgframe/internal/catalog"
	"github.com/vvka-141/pgframe/internal/tui"
)

var renameCmd = &cobra.Command{
	Use:   "rename <table> <new-name>",
	Short: "Rename a table",
	Long: `Rename a table within the target schema.

Renaming a table that does not exist is not an error; the server reports a
notice, shown with --verbose.`,
	Example: `  pgframe rename people people_2024`,
	Args:    requireArgs("people people_2024", "table", "new-name"),
	RunE:    runRename,
}

var renameFlags connectionFlags

func init() {
	rootCmd.AddCommand(renameCmd)
	addConnectionFlags(renameCmd, &renameFlags)
}

func runRename(cmd *cobra.Command, args []string) error {
	oldName, newName := args[0], args[1]

	s, err := newSession(cmd, &renameFlags)
	if err != nil {
		return err
	}
	defer s.close()

	svc := catalog.NewService(s.connector, s.logger).WithSchema(s.schema)
	_, err = tui.RunTask(s.ctx, fmt.Sprintf("Renaming %s to %s", oldName, newName), func(ctx context.Context) (string, error) {
		if err := svc.Rename(ctx, oldName, newName); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s renamed to %s", oldName, newName), nil
	})
	return s.interrupted(err)
}
