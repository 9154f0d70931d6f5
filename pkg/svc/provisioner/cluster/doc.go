// Package clusterprovisioner groups the cluster provisioning backends.
//
// The kind subpackage provisions the managed cluster with the kind SDK,
// driven by the typed topology from pkg/manifest.
package clusterprovisioner
