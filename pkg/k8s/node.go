package k8s

import (
	"context"
	"encoding/json"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
)

// AnnotateNode sets a single annotation on the named node using a merge
// patch, leaving annotations owned by other writers untouched.
func AnnotateNode(
	ctx context.Context,
	clientset kubernetes.Interface,
	nodeName, key, value string,
) error {
	patch, err := json.Marshal(map[string]any{
		"metadata": map[string]any{
			"annotations": map[string]string{key: value},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal annotation patch: %w", err)
	}

	_, err = clientset.CoreV1().
		Nodes().
		Patch(ctx, nodeName, types.MergePatchType, patch, metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("failed to annotate node %s: %w", nodeName, err)
	}

	return nil
}
