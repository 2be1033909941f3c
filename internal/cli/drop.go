package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgframe/internal/catalog"
	"github.com/vvka-141/pgframe/internal/tui"
	"github.com/vvka-141/pgframe/internal/ui"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

var dropCmd = &cobra.Command{
	Use:   "drop <table>",
	Short: "Drop a table",
	Long: `Drop a table from the target schema.

Dropping a table that does not exist is a schema error (exit code 12).
On a terminal the command asks you to type the table name unless --yes
is given.`,
	Example: `  pgframe drop people
  pgframe drop people --schema staging --yes`,
	Args: requireArgs("people", "table"),
	RunE: runDrop,
}

var dropFlags struct {
	conn connectionFlags
	yes  bool
}

func init() {
	rootCmd.AddCommand(dropCmd)
	addConnectionFlags(dropCmd, &dropFlags.conn)
	dropCmd.Flags().BoolVarP(&dropFlags.yes, "yes", "y", false, "Do not ask for confirmation")
}

func runDrop(cmd *cobra.Command, args []string) error {
	name := args[0]

	s, err := newSession(cmd, &dropFlags.conn)
	if err != nil {
		return err
	}
	defer s.close()

	if approver := dropApprover(dropFlags.yes); approver != nil {
		approved, err := approver.RequestApproval(s.ctx, name)
		if err != nil {
			return s.interrupted(err)
		}
		if !approved {
			return nil
		}
	}

	svc := catalog.NewService(s.connector, s.logger).WithSchema(s.schema)
	_, err = tui.RunTask(s.ctx, "Dropping "+name, func(ctx context.Context) (string, error) {
		if err := svc.Drop(ctx, name); err != nil {
			return "", err
		}
		return name + " dropped", nil
	})
	return s.interrupted(err)
}

// dropApprover returns nil when no confirmation is needed.
func dropApprover(yes bool) pgframe.Approver {
	if yes || !tui.IsInteractive() {
		return nil
	}
	return ui.NewInteractiveApprover()
}
