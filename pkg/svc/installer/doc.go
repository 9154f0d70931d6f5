// Package installer provides functionality for installing and uninstalling components.
//
// This package defines the Installer interface implemented by the components
// slipway installs into its cluster, such as the ingress-nginx controller.
package installer
