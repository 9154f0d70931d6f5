package kindprovisioner_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	kindprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/kind"
)

func TestNewDefaultProviderAdapter(t *testing.T) {
	t.Parallel()

	adapter := kindprovisioner.NewDefaultProviderAdapter(io.Discard)

	assert.NotNil(t, adapter, "adapter should not be nil")
}

func TestDefaultProviderAdapterImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ kindprovisioner.KindProvider = (*kindprovisioner.DefaultProviderAdapter)(nil)
}
