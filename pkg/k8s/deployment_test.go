package k8s_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"k8s.io/client-go/kubernetes/fake"

	"github.com/slipway-dev/slipway/pkg/k8s"
)

// TestPatchDeployment_AppendsContainerArg tests a JSON patch lands on the
// deployment's pod template.
func TestPatchDeployment_AppendsContainerArg(t *testing.T) {
	t.Parallel()

	client := fake.NewSimpleClientset(&appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "ingress-nginx-controller",
			Namespace: "ingress-nginx",
		},
		Spec: appsv1.DeploymentSpec{
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name: "controller",
						Args: []string{"/nginx-ingress-controller"},
					}},
				},
			},
		},
	})

	patch := []byte(
		`[{"op":"add","path":"/spec/template/spec/containers/0/args/-",` +
			`"value":"--enable-ssl-passthrough"}]`,
	)

	err := k8s.PatchDeployment(
		context.Background(),
		client,
		"ingress-nginx",
		"ingress-nginx-controller",
		patch,
	)
	require.NoError(t, err)

	deployment, err := client.AppsV1().
		Deployments("ingress-nginx").
		Get(context.Background(), "ingress-nginx-controller", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(
		t,
		[]string{"/nginx-ingress-controller", "--enable-ssl-passthrough"},
		deployment.Spec.Template.Spec.Containers[0].Args,
	)
}

// TestPatchDeployment_MissingDeployment tests patching an absent deployment
// fails.
func TestPatchDeployment_MissingDeployment(t *testing.T) {
	t.Parallel()

	client := fake.NewSimpleClientset()

	err := k8s.PatchDeployment(
		context.Background(),
		client,
		"ingress-nginx",
		"ingress-nginx-controller",
		[]byte(`[]`),
	)

	require.Error(t, err)
	assert.Contains(
		t,
		err.Error(),
		"failed to patch deployment ingress-nginx/ingress-nginx-controller",
	)
}
