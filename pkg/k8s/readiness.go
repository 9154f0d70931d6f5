package k8s

import (
	"context"
	"errors"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"

	"github.com/slipway-dev/slipway/pkg/errdefs"
)

// pollInterval is the delay between readiness checks.
const pollInterval = 2 * time.Second

// PollForReadiness polls the check function until it reports ready, the
// timeout elapses, or the check returns an error. The first check runs
// immediately.
func PollForReadiness(
	ctx context.Context,
	timeout time.Duration,
	check func(context.Context) (bool, error),
) error {
	err := wait.PollUntilContextTimeout(ctx, pollInterval, timeout, true, check)
	if err != nil {
		return fmt.Errorf("failed to poll for readiness: %w", err)
	}

	return nil
}

// WaitForDeploymentReady polls until the deployment has converged on its
// desired state. Expiry of the timeout is reported as a timeout-kind error so
// callers can distinguish a slow rollout from a failed API call.
func WaitForDeploymentReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, name string,
	timeout time.Duration,
) error {
	err := PollForReadiness(ctx, timeout, func(ctx context.Context) (bool, error) {
		deployment, err := clientset.AppsV1().
			Deployments(namespace).
			Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, fmt.Errorf("failed to get deployment %s/%s: %w", namespace, name, err)
		}

		return isDeploymentReady(deployment), nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errdefs.Timeoutf(
				"deployment %s/%s did not become ready within %s: %w",
				namespace, name, timeout, err,
			)
		}

		return err
	}

	return nil
}

// isDeploymentReady reports whether the deployment's observed generation is
// current, every desired replica is updated and available, and the Available
// condition holds.
func isDeploymentReady(deployment *appsv1.Deployment) bool {
	if deployment.Status.ObservedGeneration < deployment.Generation {
		return false
	}

	desired := int32(1)
	if deployment.Spec.Replicas != nil {
		desired = *deployment.Spec.Replicas
	}

	if deployment.Status.UpdatedReplicas != desired ||
		deployment.Status.Replicas != desired ||
		deployment.Status.AvailableReplicas != desired {
		return false
	}

	for _, condition := range deployment.Status.Conditions {
		if condition.Type == appsv1.DeploymentAvailable &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}

	return false
}
