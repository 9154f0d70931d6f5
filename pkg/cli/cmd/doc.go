// Package cmd provides the command-line interface for slipway.
//
// This package contains the root command and the four lifecycle subcommands:
//   - start: bring up the registry, the cluster, and the ingress controller
//   - stop: tear down whatever parts of the environment are running
//   - status: report cluster and registry state
//   - expose: publish a service under its own hostname
//
// Each subcommand resolves its configuration, wires the collaborators for
// one orchestrator operation, and runs it.
package cmd
