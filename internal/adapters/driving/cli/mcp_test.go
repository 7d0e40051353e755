package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

func TestMCPCmd_HasServe(t *testing.T) {
	var found bool
	for _, c := range mcpCmd.Commands() {
		if c.Name() == "serve" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMCPServeCmd_Flags(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_RequiresReorderService(t *testing.T) {
	defer setupTestServices()()
	reorderService = nil
	reorderErr = domain.ErrEmbeddingUnavailable

	_, _, err := executeCommand(t, "", "mcp", "serve")

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
