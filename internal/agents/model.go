package agents

import "time"

// Agent is a configured voice persona. ProviderAgentID is set only after the
// configuration has been pushed to the voice-AI provider at least once;
// while it is empty the record is a local draft.
type Agent struct {
	ID              string  `json:"id"`
	AccountID       string  `json:"accountId"`
	ProviderAgentID *string `json:"providerAgentId,omitempty"`

	Name        string `json:"name"`
	VoiceID     string `json:"voiceId"`
	Personality string `json:"personality,omitempty"`
	Greeting    string `json:"greeting,omitempty"`
	Language    string `json:"language,omitempty"`

	// Numeric tuning fields are pointers: nil means "use provider default".
	ResponseDelayMs         *int     `json:"responseDelayMs,omitempty"`
	InterruptionSensitivity *float64 `json:"interruptionSensitivity,omitempty"`
	EnableBackchannel       bool     `json:"enableBackchannel"`
	BackchannelFrequency    *float64 `json:"backchannelFrequency,omitempty"`
	VoiceTemperature        *float64 `json:"voiceTemperature,omitempty"`
	VoiceSpeed              *float64 `json:"voiceSpeed,omitempty"`
	Volume                  *float64 `json:"volume,omitempty"`

	VoicemailDetectionEnabled bool   `json:"voicemailDetectionEnabled"`
	VoicemailTimeoutMs        *int   `json:"voicemailTimeoutMs,omitempty"`
	VoicemailMessage          string `json:"voicemailMessage,omitempty"`

	MaxCallDurationMs *int     `json:"maxCallDurationMs,omitempty"`
	BoostedKeywords   []string `json:"boostedKeywords,omitempty"`
	ReminderTriggerMs *int     `json:"reminderTriggerMs,omitempty"`
	ReminderCount     *int     `json:"reminderCount,omitempty"`

	ActiveHoursStart string   `json:"activeHoursStart,omitempty"`
	ActiveHoursEnd   string   `json:"activeHoursEnd,omitempty"`
	ActiveDays       []string `json:"activeDays,omitempty"`

	// Active is togglable independently of configuration edits.
	Active bool `json:"active"`

	// Stats are populated from the provider and never client-writable.
	TotalCalls        int      `json:"totalCalls"`
	AvgDurationSecs   float64  `json:"avgDurationSecs"`
	SatisfactionScore *float64 `json:"satisfactionScore,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Synced reports whether the agent is live on the provider side.
func (a *Agent) Synced() bool {
	return a.ProviderAgentID != nil && *a.ProviderAgentID != ""
}
