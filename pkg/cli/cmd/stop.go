package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/config"
	"github.com/slipway-dev/slipway/pkg/svc/orchestrator"
)

// NewStopCmd creates and returns the stop command.
func NewStopCmd() *cobra.Command {
	manager := config.NewManager()

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the local dev environment",
		Long: `Stop the local dev environment.

Deletes the cluster and removes the registry container. Pieces that are not
running are skipped, so stop can be re-run safely.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOperation(cmd, manager, func(
				ctx context.Context,
				orch *orchestrator.Orchestrator,
			) error {
				return orch.Stop(ctx)
			})
		},
	}

	addCommonFlags(cmd)

	return cmd
}
