package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandCreateAgent(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"action":"create-agent","agentConfig":{"name":"Ava","voiceId":"v1"}}`))
	require.NoError(t, err)

	create, ok := cmd.(CreateAgentCommand)
	require.True(t, ok)
	assert.Equal(t, "Ava", create.AgentConfig["name"])
	assert.Equal(t, ActionCreateAgent, create.Action())
}

func TestParseCommandUpdateRequiresAgentID(t *testing.T) {
	_, err := ParseCommand([]byte(`{"action":"update-agent","agentConfig":{"name":"Ava"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agentId")
}

func TestParseCommandCreateRequiresConfig(t *testing.T) {
	_, err := ParseCommand([]byte(`{"action":"create-agent"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agentConfig")
}

func TestParseCommandDeleteAgent(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"action":"delete-agent","agentId":"a1"}`))
	require.NoError(t, err)
	assert.Equal(t, DeleteAgentCommand{AgentID: "a1"}, cmd)
}

func TestParseCommandSyncPhoneNumbers(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"action":"sync-phone-numbers"}`))
	require.NoError(t, err)
	assert.Equal(t, SyncPhoneNumbersCommand{}, cmd)
}

func TestParseCommandPurchase(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"action":"purchase-phone-number","areaCode":"415","nickname":"Main","inboundAgentId":"a1"}`))
	require.NoError(t, err)
	assert.Equal(t, PurchasePhoneNumberCommand{AreaCode: "415", Nickname: "Main", InboundAgentID: "a1"}, cmd)
}

func TestParseCommandUnknownAction(t *testing.T) {
	_, err := ParseCommand([]byte(`{"action":"reboot-agent"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestParseCommandMissingAction(t *testing.T) {
	_, err := ParseCommand([]byte(`{"agentId":"a1"}`))
	require.Error(t, err)
}

func TestParseCommandInvalidJSON(t *testing.T) {
	_, err := ParseCommand([]byte(`{`))
	require.Error(t, err)
}
