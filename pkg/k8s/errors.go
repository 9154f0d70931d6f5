package k8s

import "errors"

var (
	// ErrKubeconfigPathEmpty is returned when kubeconfig path is empty.
	ErrKubeconfigPathEmpty = errors.New("kubeconfig path is empty")

	// ErrObjectKindMissing is returned when a manifest object has no kind.
	ErrObjectKindMissing = errors.New("object has no kind set")

	// ErrObjectNameMissing is returned when a manifest object has no metadata.name.
	ErrObjectNameMissing = errors.New("object has no name set")
)
