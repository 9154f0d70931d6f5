package k8s

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// DefaultKubeconfigPath returns the default kubeconfig path for the current
// user, ~/.kube/config.
func DefaultKubeconfigPath() string {
	homeDir, _ := os.UserHomeDir()

	return filepath.Join(homeDir, ".kube", "config")
}

// BuildRESTConfig builds a Kubernetes REST config from a kubeconfig path and
// an optional context name. If kubecontext is empty, the kubeconfig's current
// context is used.
//
// Returns ErrKubeconfigPathEmpty if the kubeconfig path is empty.
func BuildRESTConfig(kubeconfig, kubecontext string) (*rest.Config, error) {
	if kubeconfig == "" {
		return nil, ErrKubeconfigPathEmpty
	}

	loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig}

	overrides := &clientcmd.ConfigOverrides{}
	if kubecontext != "" {
		overrides.CurrentContext = kubecontext
	}

	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	return restConfig, nil
}

// NewClientset creates a Kubernetes clientset from a kubeconfig path and
// context. Creating the clientset does not contact the cluster; the first
// request does.
func NewClientset(kubeconfig, kubecontext string) (*kubernetes.Clientset, error) {
	restConfig, err := BuildRESTConfig(kubeconfig, kubecontext)
	if err != nil {
		return nil, fmt.Errorf("failed to build rest config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return clientset, nil
}

// Client bundles typed and dynamic access to a single cluster. It is the
// handle the rest of slipway works through once the cluster's kubeconfig
// exists.
type Client struct {
	Clientset kubernetes.Interface
	Applier   *Applier
}

// NewClient creates a Client for the cluster selected by a kubeconfig path
// and an optional context name.
func NewClient(kubeconfig, kubecontext string) (*Client, error) {
	restConfig, err := BuildRESTConfig(kubeconfig, kubecontext)
	if err != nil {
		return nil, fmt.Errorf("failed to build rest config: %w", err)
	}

	return NewClientForConfig(restConfig)
}

// NewClientForConfig creates a Client from an existing REST config.
func NewClientForConfig(restConfig *rest.Config) (*Client, error) {
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	applier, err := NewApplierForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create applier: %w", err)
	}

	return &Client{Clientset: clientset, Applier: applier}, nil
}

// ApplyObject server-side applies a single typed object.
func (c *Client) ApplyObject(ctx context.Context, obj runtime.Object) error {
	return c.Applier.ApplyObject(ctx, obj)
}

// AnnotateNode sets a single annotation on the named node.
func (c *Client) AnnotateNode(ctx context.Context, nodeName, key, value string) error {
	return AnnotateNode(ctx, c.Clientset, nodeName, key, value)
}

// ServiceFirstPort returns the first declared port of the named service.
func (c *Client) ServiceFirstPort(ctx context.Context, namespace, name string) (int32, bool, error) {
	return ServiceFirstPort(ctx, c.Clientset, namespace, name)
}

// ListNamespaces returns the names of all namespaces in the cluster.
func (c *Client) ListNamespaces(ctx context.Context) ([]string, error) {
	return ListNamespaces(ctx, c.Clientset)
}

// ServerVersion returns the API server's version string.
func (c *Client) ServerVersion() (string, error) {
	return ServerVersion(c.Clientset)
}
