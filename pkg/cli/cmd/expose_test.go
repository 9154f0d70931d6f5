package cmd_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipway-dev/slipway/pkg/cli/cmd"
	"github.com/slipway-dev/slipway/pkg/config"
)

func TestNewExposeCmdMetadataAndFlags(t *testing.T) {
	t.Parallel()

	command := cmd.NewExposeCmd()

	assert.Equal(t, "expose <service>", command.Use)

	for _, name := range []string{"name", "kubeconfig", "context", "namespace"} {
		require.NotNil(t, command.Flags().Lookup(name), "expected flag %q", name)
	}

	assert.Equal(
		t,
		config.DefaultServiceNamespace,
		command.Flags().Lookup("namespace").DefValue,
	)
}

func TestExposeRequiresExactlyOneArg(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{}, {"web", "extra"}} {
		var out, errOut bytes.Buffer

		command := cmd.NewExposeCmd()
		command.SetOut(&out)
		command.SetErr(&errOut)
		command.SetArgs(args)

		err := command.Execute()

		require.Error(t, err, "Execute(%v)", args)
		assert.Contains(t, err.Error(), "accepts 1 arg(s)")
	}
}
