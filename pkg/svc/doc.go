// Package svc provides the service layer for slipway.
//
// This package contains the business logic that coordinates between the CLI
// commands and the underlying clients.
//
// Subpackages:
//   - installer: in-cluster component installers such as ingress-nginx
//   - orchestrator: lifecycle operations (start, stop, status, expose)
//   - probe: read-only environment state checks that gate mutations
//   - provisioner: cluster and registry provisioning
package svc
