package cmd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipway-dev/slipway/pkg/cli/cmd"
)

func TestNewStatusCmdMetadataAndFlags(t *testing.T) {
	t.Parallel()

	command := cmd.NewStatusCmd()

	assert.Equal(t, "status", command.Use)

	for _, name := range []string{"name", "kubeconfig", "context"} {
		require.NotNil(t, command.Flags().Lookup(name), "expected flag %q", name)
	}
}
