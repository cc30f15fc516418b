package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToProviderKeysTableEntries(t *testing.T) {
	in := map[string]any{
		"voiceId":          "11labs-anna",
		"responseDelayMs":  250,
		"voiceTemperature": 0.8,
		"boostedKeywords":  []string{"botox", "filler"},
	}

	out := ToProviderKeys(in)

	require.Len(t, out, len(in))
	assert.Equal(t, "11labs-anna", out["voice_id"])
	assert.Equal(t, 250, out["response_delay_ms"])
	assert.Equal(t, 0.8, out["voice_temperature"])
	assert.Equal(t, []string{"botox", "filler"}, out["boosted_keywords"])
}

func TestToClientKeysTableEntries(t *testing.T) {
	in := map[string]any{
		"agent_id":           "agent_abc",
		"voice_id":           "11labs-anna",
		"enable_backchannel": true,
	}

	out := ToClientKeys(in)

	require.Len(t, out, len(in))
	assert.Equal(t, "agent_abc", out["agentId"])
	assert.Equal(t, "11labs-anna", out["voiceId"])
	assert.Equal(t, true, out["enableBackchannel"])
}

// agentId, providerAgentId and name each own a distinct provider key, so a
// payload carrying any combination of them keeps every entry.
func TestTranslateIdentifierAndNameKeys(t *testing.T) {
	out := ToProviderKeys(map[string]any{
		"agentId":         "ret_abc",
		"providerAgentId": "ret_def",
		"name":            "Ava",
	})
	require.Len(t, out, 3)
	assert.Equal(t, "ret_abc", out["agent_id"])
	assert.Equal(t, "ret_def", out["provider_agent_id"])
	assert.Equal(t, "Ava", out["agent_name"])

	back := ToClientKeys(out)
	require.Len(t, back, 3)
	assert.Equal(t, "ret_abc", back["agentId"])
	assert.Equal(t, "ret_def", back["providerAgentId"])
	assert.Equal(t, "Ava", back["name"])
}

func TestTranslateFallbackForUnknownKeys(t *testing.T) {
	out := ToProviderKeys(map[string]any{"someNewField": 1})
	assert.Equal(t, map[string]any{"some_new_field": 1}, out)

	back := ToClientKeys(map[string]any{"some_new_field": 1})
	assert.Equal(t, map[string]any{"someNewField": 1}, back)
}

func TestTranslateKeysWithoutCaseBoundaryPassThrough(t *testing.T) {
	in := map[string]any{"personality": "friendly", "language": "en-US", "volume": 1.0}

	out := ToProviderKeys(in)
	assert.Equal(t, in, out)

	back := ToClientKeys(out)
	assert.Equal(t, in, back)
}

func TestTranslateEmptyObject(t *testing.T) {
	assert.Empty(t, ToProviderKeys(map[string]any{}))
	assert.Empty(t, ToClientKeys(map[string]any{}))
}

func TestTranslateDoesNotMutateInput(t *testing.T) {
	in := map[string]any{"voiceId": "v1"}
	_ = ToProviderKeys(in)

	_, stillThere := in["voiceId"]
	assert.True(t, stillThere)
	assert.Len(t, in, 1)
}

// Every value present in the input must appear, unchanged, under its
// translated key, and the output must have exactly as many keys as the input.
func TestTranslateLosslessOverAgentRecord(t *testing.T) {
	record := map[string]any{
		"name":                      "Front Desk",
		"voiceId":                   "11labs-anna",
		"personality":               "warm and concise",
		"greeting":                  "Thanks for calling!",
		"language":                  "en-US",
		"responseDelayMs":           200,
		"interruptionSensitivity":   0.5,
		"enableBackchannel":         true,
		"backchannelFrequency":      0.7,
		"voiceTemperature":          0.9,
		"voiceSpeed":                1.1,
		"volume":                    0.8,
		"voicemailDetectionEnabled": true,
		"voicemailTimeoutMs":        30000,
		"voicemailMessage":          "Please call back",
		"maxCallDurationMs":         600000,
		"boostedKeywords":           []string{"appointment"},
		"reminderTriggerMs":         10000,
		"reminderCount":             2,
		"activeHoursStart":          "09:00",
		"activeHoursEnd":            "17:00",
		"activeDays":                []string{"monday", "tuesday"},
		"active":                    true,
	}

	out := ToProviderKeys(record)
	require.Len(t, out, len(record), "no key may be dropped or duplicated")

	seen := map[any]int{}
	for _, v := range record {
		switch v.(type) {
		case []string:
		default:
			seen[v]++
		}
	}
	for _, v := range out {
		switch v.(type) {
		case []string:
		default:
			seen[v]--
		}
	}
	for value, count := range seen {
		assert.Zerof(t, count, "value %v lost or duplicated in translation", value)
	}

	// And the round trip restores the original key set.
	back := ToClientKeys(out)
	require.Len(t, back, len(record))
	for key, value := range record {
		switch value.(type) {
		case []string:
			assert.Contains(t, back, key)
		default:
			assert.Equal(t, value, back[key], "key %s", key)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"voiceId":     "voice_id",
		"plainword":   "plainword",
		"maxAttempts": "max_attempts",
		"a":           "a",
		"":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, snakeCase(in), "snakeCase(%q)", in)
	}
}

func TestCamelCase(t *testing.T) {
	cases := map[string]string{
		"voice_id":     "voiceId",
		"plainword":    "plainword",
		"max_attempts": "maxAttempts",
		"a":            "a",
		"":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, camelCase(in), "camelCase(%q)", in)
	}
}
