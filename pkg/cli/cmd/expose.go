package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/config"
	"github.com/slipway-dev/slipway/pkg/svc/orchestrator"
)

// NewExposeCmd creates and returns the expose command.
func NewExposeCmd() *cobra.Command {
	manager := config.NewManager()

	cmd := &cobra.Command{
		Use:   "expose <service>",
		Short: "Expose a service under its own hostname",
		Long: `Expose a service under its own hostname.

Creates an ingress record routing http://<service>.<domain-suffix> to the
service's first declared port. The service must already exist in the target
namespace and declare at least one port.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, manager, func(
				ctx context.Context,
				orch *orchestrator.Orchestrator,
			) error {
				return orch.Expose(ctx, args[0])
			})
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().String(
		namespaceFlag,
		config.DefaultServiceNamespace,
		"namespace to resolve the service in",
	)

	return cmd
}
