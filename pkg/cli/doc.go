// Package cli provides the slipway command-line interface.
//
// The cmd subpackage defines the root command and the lifecycle subcommands
// (start, stop, status, expose) together with the wiring that assembles the
// orchestrator and its collaborators from configuration.
package cli
