package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-sync/internal/observability"
)

var setStatus string

var statusCmd = &cobra.Command{
	Use:   "status <role_id>",
	Short: "Print a role summary, or set its job status",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&setStatus, "status", "", "Set the role's job status to this value")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	roleID, err := strconv.Atoi(args[0])
	if err != nil || roleID <= 0 {
		return fmt.Errorf("invalid role id %q", args[0])
	}

	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	syncer, err := a.syncer(ctx)
	if err != nil {
		return err
	}

	if setStatus != "" {
		if err := syncer.SetStatus(ctx, a.store, roleID, setStatus); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Role %d status set to %q\n", roleID, setStatus)
	}

	st, err := syncer.Status(ctx, roleID)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRoleStatus(st)
	return nil
}
