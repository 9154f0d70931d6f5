package kindprovisioner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	"sigs.k8s.io/kind/pkg/cluster"

	"github.com/slipway-dev/slipway/pkg/errdefs"
	kindprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/kind"
)

const (
	testClusterName    = "slipway"
	testNodeImage      = "kindest/node:v1.33.1"
	testKubeconfigPath = "/home/dev/.kube/config"
)

var (
	errCreateClusterFailed = errors.New("create cluster failed")
	errDeleteClusterFailed = errors.New("delete cluster failed")
	errListClustersFailed  = errors.New("list clusters failed")
	errListNodesFailed     = errors.New("list nodes failed")
)

// mockKindProvider is a test helper that mocks the kind SDK provider.
type mockKindProvider struct {
	mock.Mock

	// capture create options for tests that assert option composition
	lastCreateOpts []cluster.CreateOption
}

func (m *mockKindProvider) Create(name string, opts ...cluster.CreateOption) error {
	m.lastCreateOpts = append([]cluster.CreateOption(nil), opts...)
	args := m.Called(name)

	return args.Error(0)
}

func (m *mockKindProvider) Delete(name, kubeconfigPath string) error {
	args := m.Called(name, kubeconfigPath)

	return args.Error(0)
}

func (m *mockKindProvider) List() ([]string, error) {
	args := m.Called()
	clusters, _ := args.Get(0).([]string)

	return clusters, args.Error(1)
}

func (m *mockKindProvider) ListNodes(name string) ([]string, error) {
	args := m.Called(name)
	nodes, _ := args.Get(0).([]string)

	return nodes, args.Error(1)
}

func newProvisionerForTest(
	t *testing.T,
) (*kindprovisioner.Provisioner, *mockKindProvider) {
	t.Helper()

	provider := &mockKindProvider{}
	provider.Test(t)
	t.Cleanup(func() { provider.AssertExpectations(t) })

	topology := &v1alpha4.Cluster{
		TypeMeta: v1alpha4.TypeMeta{
			Kind:       "Cluster",
			APIVersion: "kind.x-k8s.io/v1alpha4",
		},
		Name: testClusterName,
	}

	provisioner := kindprovisioner.NewProvisioner(
		topology,
		testNodeImage,
		testKubeconfigPath,
		provider,
	)

	return provisioner, provider
}

func TestCreateSuccess(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	provider.On("Create", testClusterName).Return(nil)

	err := provisioner.Create(context.Background())

	require.NoError(t, err, "Create()")
	// topology + display usage + display salutation + node image + kubeconfig path
	assert.Len(t, provider.lastCreateOpts, 5, "Create() options")
}

func TestCreateOmitsOptionalOverrides(t *testing.T) {
	t.Parallel()

	provider := &mockKindProvider{}
	provider.Test(t)
	t.Cleanup(func() { provider.AssertExpectations(t) })

	provisioner := kindprovisioner.NewProvisioner(
		&v1alpha4.Cluster{Name: testClusterName},
		"",
		"",
		provider,
	)
	provider.On("Create", testClusterName).Return(nil)

	err := provisioner.Create(context.Background())

	require.NoError(t, err, "Create()")
	// topology + display usage + display salutation only
	assert.Len(t, provider.lastCreateOpts, 3, "Create() options")
}

func TestCreateErrorCreateFailed(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	provider.On("Create", testClusterName).Return(errCreateClusterFailed)

	err := provisioner.Create(context.Background())

	require.ErrorIs(t, err, errCreateClusterFailed, "Create()")
	assert.True(t, errdefs.IsExternalFailure(err), "Create() should be an external failure")
}

func TestCreateCancelledContext(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := provisioner.Create(ctx)

	require.ErrorIs(t, err, context.Canceled, "Create()")
	provider.AssertNotCalled(t, "Create", mock.Anything)
}

func TestDeleteSuccess(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	provider.On("Delete", testClusterName, testKubeconfigPath).Return(nil)

	err := provisioner.Delete(context.Background())

	require.NoError(t, err, "Delete()")
}

func TestDeleteErrorDeleteFailed(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	provider.On("Delete", testClusterName, testKubeconfigPath).Return(errDeleteClusterFailed)

	err := provisioner.Delete(context.Background())

	require.ErrorIs(t, err, errDeleteClusterFailed, "Delete()")
	assert.True(t, errdefs.IsExternalFailure(err), "Delete() should be an external failure")
}

func TestDeleteCancelledContext(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := provisioner.Delete(ctx)

	require.ErrorIs(t, err, context.Canceled, "Delete()")
	provider.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListSuccess(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	provider.On("List").Return([]string{"a", "b"}, nil)

	got, err := provisioner.List(context.Background())

	require.NoError(t, err, "List()")
	assert.Equal(t, []string{"a", "b"}, got, "List()")
}

func TestListErrorListFailed(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	provider.On("List").Return(nil, errListClustersFailed)

	_, err := provisioner.List(context.Background())

	require.ErrorIs(t, err, errListClustersFailed, "List()")
	assert.ErrorContains(t, err, "failed to list kind clusters", "List()")
}

func TestExistsSuccessTrue(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	provider.On("List").Return([]string{"other", testClusterName}, nil)

	exists, err := provisioner.Exists(context.Background())

	require.NoError(t, err, "Exists()")
	assert.True(t, exists, "Exists()")
}

func TestExistsSuccessFalse(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	provider.On("List").Return([]string{"other"}, nil)

	exists, err := provisioner.Exists(context.Background())

	require.NoError(t, err, "Exists()")
	assert.False(t, exists, "Exists()")
}

func TestExistsErrorListFailed(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	provider.On("List").Return(nil, errListClustersFailed)

	exists, err := provisioner.Exists(context.Background())

	require.ErrorIs(t, err, errListClustersFailed, "Exists()")
	assert.False(t, exists, "Exists() should be false on error")
	assert.True(t, errdefs.IsExternalFailure(err), "Exists() should be an external failure")
}

func TestNodesSuccess(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	provider.On("ListNodes", testClusterName).
		Return([]string{"slipway-control-plane", "slipway-worker"}, nil)

	nodes, err := provisioner.Nodes(context.Background())

	require.NoError(t, err, "Nodes()")
	assert.Equal(t, []string{"slipway-control-plane", "slipway-worker"}, nodes, "Nodes()")
}

func TestNodesErrorListNodesFailed(t *testing.T) {
	t.Parallel()
	provisioner, provider := newProvisionerForTest(t)

	provider.On("ListNodes", testClusterName).Return(nil, errListNodesFailed)

	_, err := provisioner.Nodes(context.Background())

	require.ErrorIs(t, err, errListNodesFailed, "Nodes()")
	assert.ErrorContains(t, err, "failed to list nodes of kind cluster", "Nodes()")
}
