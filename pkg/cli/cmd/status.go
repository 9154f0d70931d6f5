package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/config"
	"github.com/slipway-dev/slipway/pkg/svc/orchestrator"
)

// NewStatusCmd creates and returns the status command.
func NewStatusCmd() *cobra.Command {
	manager := config.NewManager()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the local dev environment",
		Long: `Show the state of the local dev environment.

Reports whether the cluster and registry are running. For a running cluster
the report includes the API server version, nodes, and namespaces, proving
the API answers rather than just that containers exist.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOperation(cmd, manager, func(
				ctx context.Context,
				orch *orchestrator.Orchestrator,
			) error {
				return orch.Status(ctx)
			})
		},
	}

	addCommonFlags(cmd)

	return cmd
}
