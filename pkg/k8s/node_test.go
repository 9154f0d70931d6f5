package k8s_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"k8s.io/client-go/kubernetes/fake"

	"github.com/slipway-dev/slipway/pkg/k8s"
)

// TestAnnotateNode_AddsAnnotation tests a new annotation lands on the node.
func TestAnnotateNode_AddsAnnotation(t *testing.T) {
	t.Parallel()

	client := fake.NewSimpleClientset(&corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: "slipway-control-plane"},
	})

	err := k8s.AnnotateNode(
		context.Background(),
		client,
		"slipway-control-plane",
		"slipway.dev/registry",
		"localhost:5000",
	)
	require.NoError(t, err)

	node, err := client.CoreV1().
		Nodes().
		Get(context.Background(), "slipway-control-plane", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "localhost:5000", node.Annotations["slipway.dev/registry"])
}

// TestAnnotateNode_PreservesExistingAnnotations tests the merge patch leaves
// unrelated annotations alone.
func TestAnnotateNode_PreservesExistingAnnotations(t *testing.T) {
	t.Parallel()

	client := fake.NewSimpleClientset(&corev1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name: "slipway-control-plane",
			Annotations: map[string]string{
				"kubeadm.alpha.kubernetes.io/cri-socket": "unix:///run/containerd/containerd.sock",
			},
		},
	})

	err := k8s.AnnotateNode(
		context.Background(),
		client,
		"slipway-control-plane",
		"slipway.dev/registry",
		"localhost:5000",
	)
	require.NoError(t, err)

	node, err := client.CoreV1().
		Nodes().
		Get(context.Background(), "slipway-control-plane", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "localhost:5000", node.Annotations["slipway.dev/registry"])
	assert.Equal(
		t,
		"unix:///run/containerd/containerd.sock",
		node.Annotations["kubeadm.alpha.kubernetes.io/cri-socket"],
	)
}

// TestAnnotateNode_OverwritesExistingValue tests re-annotating updates the value.
func TestAnnotateNode_OverwritesExistingValue(t *testing.T) {
	t.Parallel()

	client := fake.NewSimpleClientset(&corev1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name:        "slipway-control-plane",
			Annotations: map[string]string{"slipway.dev/registry": "localhost:5000"},
		},
	})

	err := k8s.AnnotateNode(
		context.Background(),
		client,
		"slipway-control-plane",
		"slipway.dev/registry",
		"localhost:5050",
	)
	require.NoError(t, err)

	node, err := client.CoreV1().
		Nodes().
		Get(context.Background(), "slipway-control-plane", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "localhost:5050", node.Annotations["slipway.dev/registry"])
}

// TestAnnotateNode_MissingNode tests annotating an absent node fails.
func TestAnnotateNode_MissingNode(t *testing.T) {
	t.Parallel()

	client := fake.NewSimpleClientset()

	err := k8s.AnnotateNode(
		context.Background(),
		client,
		"missing-node",
		"slipway.dev/registry",
		"localhost:5000",
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to annotate node missing-node")
}
