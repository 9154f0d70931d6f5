// Package manifest builds the structured configuration slipway feeds to its
// collaborators: the cluster topology, the ingress controller args patch, the
// per-service ingress record, and the registry discovery ConfigMap.
//
// Builders are pure functions from parameters to typed objects. Nothing here
// touches the filesystem or the network; serialization happens only at the
// point of the actual API call. Identical parameters produce byte-identical
// serialized output, which the snapshot tests pin.
package manifest
