package k8s

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
)

// PatchDeployment applies an RFC 6902 JSON patch to the named deployment.
func PatchDeployment(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, name string,
	patch []byte,
) error {
	_, err := clientset.AppsV1().Deployments(namespace).Patch(
		ctx,
		name,
		types.JSONPatchType,
		patch,
		metav1.PatchOptions{},
	)
	if err != nil {
		return fmt.Errorf("failed to patch deployment %s/%s: %w", namespace, name, err)
	}

	return nil
}
