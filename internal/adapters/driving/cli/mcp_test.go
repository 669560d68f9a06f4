package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
}

func TestMCPCmd_HasServeSubcommand(t *testing.T) {
	found := false
	for _, cmd := range mcpCmd.Commands() {
		if cmd.Name() == "serve" {
			found = true
			break
		}
	}
	assert.True(t, found, "mcp serve should be registered")
}

func TestMCPServeCmd_Short(t *testing.T) {
	assert.Equal(t, "Start the MCP server", mcpServeCmd.Short)
}

func TestMCPServeCmd_HasHTTPFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("http")
	require.NotNil(t, flag, "http flag should exist")
	assert.Equal(t, "", flag.DefValue)
}

func TestMCPServeCmd_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"mcp", "serve", "--help"})
	defer func() {
		rootCmd.SetArgs(nil)
		// Cobra keeps the help flag set across Execute calls.
		if flag := mcpServeCmd.Flags().Lookup("help"); flag != nil {
			_ = flag.Value.Set("false")
			flag.Changed = false
		}
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Model Context Protocol")
	assert.Contains(t, output, "stdio")
	assert.Contains(t, output, "mcpServers")
}

func TestMCPServeCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupNilServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"mcp", "serve"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "analysis service not configured")
}
