package k8s

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// PodFailureSummary returns a line per unhealthy pod in the namespace, or an
// empty string when every pod is healthy or none exist. List errors also
// yield an empty string; this is best-effort context for a failure report,
// not a health check.
func PodFailureSummary(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace string,
) string {
	pods, err := clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return ""
	}

	var lines []string

	for i := range pods.Items {
		pod := &pods.Items[i]
		if isPodHealthy(pod) {
			continue
		}

		lines = append(lines, describePodFailure(pod))
	}

	return strings.Join(lines, "\n")
}

// isPodHealthy returns true when a pod is Running with all containers ready,
// or Succeeded (completed Job pod).
func isPodHealthy(pod *corev1.Pod) bool {
	switch pod.Status.Phase {
	case corev1.PodRunning:
		for _, container := range pod.Status.ContainerStatuses {
			if !container.Ready {
				return false
			}
		}

		return true
	case corev1.PodSucceeded:
		return true
	case corev1.PodPending, corev1.PodFailed, corev1.PodUnknown:
		return false
	}

	return false
}

// describePodFailure returns a single-line description of why a pod is unhealthy.
func describePodFailure(pod *corev1.Pod) string {
	// Waiting reasons (ImagePullBackOff, CrashLoopBackOff, ...) are the most
	// actionable signal, so check container states first.
	for _, container := range pod.Status.ContainerStatuses {
		if container.State.Waiting != nil && container.State.Waiting.Reason != "" {
			return fmt.Sprintf(
				"%s: %s for %s",
				pod.Name, container.State.Waiting.Reason, container.Image,
			)
		}

		if container.State.Terminated != nil && container.State.Terminated.ExitCode != 0 {
			return fmt.Sprintf(
				"%s: terminated with exit code %d (%s)",
				pod.Name, container.State.Terminated.ExitCode, container.State.Terminated.Reason,
			)
		}
	}

	for _, container := range pod.Status.InitContainerStatuses {
		if container.State.Waiting != nil && container.State.Waiting.Reason != "" {
			return fmt.Sprintf(
				"%s: init container %s: %s for %s",
				pod.Name, container.Name, container.State.Waiting.Reason, container.Image,
			)
		}
	}

	if pod.Status.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", pod.Name, pod.Status.Phase, pod.Status.Reason)
	}

	return fmt.Sprintf("%s: %s", pod.Name, pod.Status.Phase)
}
