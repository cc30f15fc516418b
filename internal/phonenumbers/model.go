package phonenumbers

import "time"

// PhoneNumber is a provisioned number owned by one account. A number routes
// to at most one inbound and one outbound agent.
type PhoneNumber struct {
	ID               string    `json:"id"`
	AccountID        string    `json:"accountId"`
	ProviderNumberID string    `json:"providerNumberId"`
	Number           string    `json:"number"`
	Nickname         string    `json:"nickname,omitempty"`
	AreaCode         string    `json:"areaCode,omitempty"`
	InboundAgentID   *string   `json:"inboundAgentId,omitempty"`
	OutboundAgentID  *string   `json:"outboundAgentId,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
