package k8s

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// ServiceFirstPort returns the first port of the named service. The boolean
// is false when the service does not exist or exposes no ports; that is a
// normal outcome, not an error.
func ServiceFirstPort(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, name string,
) (int32, bool, error) {
	service, err := clientset.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return 0, false, nil
		}

		return 0, false, fmt.Errorf("failed to get service %s/%s: %w", namespace, name, err)
	}

	if len(service.Spec.Ports) == 0 {
		return 0, false, nil
	}

	return service.Spec.Ports[0].Port, true, nil
}

// ListNamespaces returns the names of all namespaces in the cluster.
func ListNamespaces(ctx context.Context, clientset kubernetes.Interface) ([]string, error) {
	namespaces, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	names := make([]string, 0, len(namespaces.Items))
	for i := range namespaces.Items {
		names = append(names, namespaces.Items[i].Name)
	}

	return names, nil
}

// ServerVersion returns the API server's version string, e.g. "v1.33.1".
func ServerVersion(clientset kubernetes.Interface) (string, error) {
	info, err := clientset.Discovery().ServerVersion()
	if err != nil {
		return "", fmt.Errorf("failed to get server version: %w", err)
	}

	return info.GitVersion, nil
}
