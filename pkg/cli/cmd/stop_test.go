package cmd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipway-dev/slipway/pkg/cli/cmd"
)

func TestNewStopCmdMetadataAndFlags(t *testing.T) {
	t.Parallel()

	command := cmd.NewStopCmd()

	assert.Equal(t, "stop", command.Use)

	for _, name := range []string{"name", "kubeconfig", "context"} {
		require.NotNil(t, command.Flags().Lookup(name), "expected flag %q", name)
	}

	assert.Nil(t, command.Flags().Lookup("timeout"), "stop has no rollout to wait for")
	assert.Nil(t, command.Flags().Lookup("namespace"), "stop does not resolve services")
}
