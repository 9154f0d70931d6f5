// Package provisioner provides cluster and registry provisioning services.
//
// Subpackages manage the two external resources slipway owns:
//
//   - cluster/kind: the managed kind cluster
//   - registry: the local image registry container
//
// Provisioners are thin sequencing layers over the engine and kind SDK
// clients; the orchestrator gates each mutating call behind a probe.
package provisioner
