// Package client provides embedded clients for external systems.
//
// The docker subpackage wraps the Docker Engine API for container and
// network operations. Embedding the client as a Go library keeps the engine
// socket the only external dependency slipway needs at runtime.
package client
