package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/config"
	"github.com/slipway-dev/slipway/pkg/svc/orchestrator"
)

// NewStartCmd creates and returns the start command.
func NewStartCmd() *cobra.Command {
	manager := config.NewManager()

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the local dev environment",
		Long: `Start the local dev environment.

Brings up the registry container, creates the cluster with the registry
mirror wired in, and installs the ingress controller. Running start against
an existing cluster is a no-op.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOperation(cmd, manager, func(
				ctx context.Context,
				orch *orchestrator.Orchestrator,
			) error {
				return orch.Start(ctx)
			})
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().Duration(
		timeoutFlag,
		config.DefaultRolloutTimeout,
		"how long to wait for the ingress controller rollout",
	)

	return cmd
}
