package retell

import (
	"encoding/json"
	"fmt"
)

// PhoneNumberResource is a provider-side phone number.
type PhoneNumberResource struct {
	PhoneNumberID   string `json:"phone_number_id"`
	PhoneNumber     string `json:"phone_number"`
	Nickname        string `json:"nickname,omitempty"`
	AreaCode        string `json:"area_code,omitempty"`
	InboundAgentID  string `json:"inbound_agent_id,omitempty"`
	OutboundAgentID string `json:"outbound_agent_id,omitempty"`
	Status          string `json:"status,omitempty"`
}

// PurchaseNumberRequest asks the provider to buy a number.
type PurchaseNumberRequest struct {
	AreaCode        string `json:"area_code,omitempty"`
	Nickname        string `json:"nickname,omitempty"`
	InboundAgentID  string `json:"inbound_agent_id,omitempty"`
	OutboundAgentID string `json:"outbound_agent_id,omitempty"`
}

// APIError carries the provider's failure details through to callers so the
// original message can be shown to the user.
type APIError struct {
	StatusCode int             `json:"-"`
	ErrorCode  string          `json:"error_code,omitempty"`
	Message    string          `json:"message,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("retell: %s (status=%d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("retell: http status %d", e.StatusCode)
}

func decodeAPIError(status int, body []byte) *APIError {
	var parsed APIError
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &APIError{StatusCode: status, Message: string(body)}
	}
	parsed.StatusCode = status
	return &parsed
}
