package campaigns

import "time"

// Campaign is an ordered SMS drip sequence driven by one SMS agent.
type Campaign struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"accountId"`
	SMSAgentID *string   `json:"smsAgentId,omitempty"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Step is one message in a campaign sequence. StepOrder positions it and
// DelayMins offsets it from the previous step.
type Step struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaignId"`
	StepOrder  int       `json:"stepOrder"`
	DelayMins  int       `json:"delayMins"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusPaused = "paused"
)
