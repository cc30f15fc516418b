package agents

import (
	"strings"
	"unicode"
)

// Key translation between the dashboard's camelCase convention and the
// provider's snake_case convention. Known agent-record fields go through an
// explicit table so renames are caught in review rather than silently
// mis-mapped; unknown keys fall back to a deterministic lexical conversion.
//
// Both directions are total and lossless: every key of the input appears
// exactly once in the output with the same value, and the input map is never
// mutated.

var clientToProviderKeys = map[string]string{
	"agentId":                   "agent_id",
	"name":                      "agent_name",
	"voiceId":                   "voice_id",
	"responseDelayMs":           "response_delay_ms",
	"interruptionSensitivity":   "interruption_sensitivity",
	"enableBackchannel":         "enable_backchannel",
	"backchannelFrequency":      "backchannel_frequency",
	"voiceTemperature":          "voice_temperature",
	"voiceSpeed":                "voice_speed",
	"voicemailDetectionEnabled": "voicemail_detection_enabled",
	"voicemailTimeoutMs":        "voicemail_timeout_ms",
	"voicemailMessage":          "voicemail_message",
	"maxCallDurationMs":         "max_call_duration_ms",
	"boostedKeywords":           "boosted_keywords",
	"reminderTriggerMs":         "reminder_trigger_ms",
	"reminderCount":             "reminder_count",
	"activeHoursStart":          "active_hours_start",
	"activeHoursEnd":            "active_hours_end",
	"activeDays":                "active_days",
	"beginMessage":              "begin_message",
	"totalCalls":                "total_calls",
	"avgDurationSecs":           "avg_duration_secs",
	"satisfactionScore":         "satisfaction_score",
	"inboundAgentId":            "inbound_agent_id",
	"outboundAgentId":           "outbound_agent_id",
	"areaCode":                  "area_code",
	"phoneNumber":               "phone_number",
	"lastModificationTimestamp": "last_modification_timestamp",
}

var providerToClientKeys = map[string]string{}

func init() {
	for camel, snake := range clientToProviderKeys {
		if _, dup := providerToClientKeys[snake]; dup {
			panic("agents: duplicate provider key in translation table: " + snake)
		}
		providerToClientKeys[snake] = camel
	}
}

// ToProviderKeys renames every key of a flat record from the client
// convention to the provider convention.
func ToProviderKeys(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[providerKey(key)] = value
	}
	return out
}

// ToClientKeys renames every key of a flat record from the provider
// convention to the client convention.
func ToClientKeys(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[clientKey(key)] = value
	}
	return out
}

func providerKey(key string) string {
	if mapped, ok := clientToProviderKeys[key]; ok {
		return mapped
	}
	return snakeCase(key)
}

func clientKey(key string) string {
	if mapped, ok := providerToClientKeys[key]; ok {
		return mapped
	}
	return camelCase(key)
}

// snakeCase converts lowerCamelCase to snake_case. Keys without a case
// boundary pass through unchanged.
func snakeCase(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// camelCase converts snake_case to lowerCamelCase. Keys without underscores
// pass through unchanged.
func camelCase(key string) string {
	parts := strings.Split(key, "_")
	if len(parts) == 1 {
		return key
	}
	var b strings.Builder
	b.Grow(len(key))
	wrote := false
	for _, part := range parts {
		if part == "" {
			continue
		}
		if !wrote {
			b.WriteString(part)
			wrote = true
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	if !wrote {
		return key
	}
	return b.String()
}
