package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Dispatch failures the root command reports before any work happens. Both
// paths print help and fail, so a typo never exits zero.
var (
	// ErrNoCommand is returned when slipway is invoked without a subcommand.
	ErrNoCommand = errors.New("no command specified")
	// ErrUnknownCommand is returned when the first argument matches no subcommand.
	ErrUnknownCommand = errors.New("unknown command")
)

// NewRootCmd creates and returns the root command with version info and all
// subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slipway",
		Short: "Slipway launches a local Kubernetes dev environment",
		Long: "Slipway launches a local Kubernetes dev environment: a kind cluster, a\n" +
			"companion image registry wired into it, and an ingress controller that\n" +
			"exposes services at http://<service>.127.0.0.1.nip.io.",
		// Unmatched tokens must reach handleRootRunE instead of being
		// rejected up front, so help and exit status stay in our hands.
		Args:         cobra.ArbitraryArgs,
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.AddCommand(NewStartCmd())
	cmd.AddCommand(NewStopCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewExposeCmd())

	return cmd
}

// Execute runs the provided root command. Cobra reports failures on its own
// error stream; that output is captured and folded into the returned error
// so the caller prints a single message.
func Execute(cmd *cobra.Command) error {
	var errBuf bytes.Buffer

	originalErrWriter := cmd.ErrOrStderr()

	cmd.SetErr(&errBuf)
	defer cmd.SetErr(originalErrWriter)

	err := cmd.Execute()
	if err == nil {
		return nil
	}

	hint := strings.TrimSpace(errBuf.String())
	hint = strings.TrimPrefix(hint, "Error: ")

	if hint == "" || strings.Contains(hint, err.Error()) {
		return err
	}

	return fmt.Errorf("%s: %w", hint, err)
}

// handleRootRunE handles bare and unrecognized invocations: print help, then
// fail so the exit status flags the mistake.
func handleRootRunE(cmd *cobra.Command, args []string) error {
	// The err can safely be ignored, as printing help cannot fail at runtime.
	_ = cmd.Help()

	if len(args) > 0 {
		return fmt.Errorf("%w %q", ErrUnknownCommand, args[0])
	}

	return ErrNoCommand
}
