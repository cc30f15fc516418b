package smsagents

import "time"

// SMSAgent is a speed-to-lead texting persona. Unlike voice agents it runs
// entirely locally and never syncs to the voice-AI provider.
type SMSAgent struct {
	ID                string    `json:"id"`
	AccountID         string    `json:"accountId"`
	Name              string    `json:"name"`
	Personality       string    `json:"personality,omitempty"`
	OpeningMessage    string    `json:"openingMessage,omitempty"`
	FollowUpDelayMins int       `json:"followUpDelayMins"`
	MaxFollowUps      int       `json:"maxFollowUps"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
