package sync

import (
	"encoding/json"
	"fmt"
)

// Actions accepted by the provider sync endpoint.
const (
	ActionCreateAgent         = "create-agent"
	ActionUpdateAgent         = "update-agent"
	ActionDeleteAgent         = "delete-agent"
	ActionSyncPhoneNumbers    = "sync-phone-numbers"
	ActionPurchasePhoneNumber = "purchase-phone-number"
)

// Command is the tagged union of sync actions. Each variant gets its own
// handler so the dispatch is exhaustive at compile time instead of a string
// match spread through one function.
type Command interface {
	Action() string
}

type CreateAgentCommand struct {
	AgentConfig map[string]any
}

func (CreateAgentCommand) Action() string { return ActionCreateAgent }

type UpdateAgentCommand struct {
	AgentID     string
	AgentConfig map[string]any
}

func (UpdateAgentCommand) Action() string { return ActionUpdateAgent }

type DeleteAgentCommand struct {
	AgentID string
}

func (DeleteAgentCommand) Action() string { return ActionDeleteAgent }

type SyncPhoneNumbersCommand struct{}

func (SyncPhoneNumbersCommand) Action() string { return ActionSyncPhoneNumbers }

type PurchasePhoneNumberCommand struct {
	AreaCode        string
	Nickname        string
	InboundAgentID  string
	OutboundAgentID string
}

func (PurchasePhoneNumberCommand) Action() string { return ActionPurchasePhoneNumber }

type envelope struct {
	Action          string         `json:"action"`
	AgentID         string         `json:"agentId"`
	AgentConfig     map[string]any `json:"agentConfig"`
	AreaCode        string         `json:"areaCode"`
	Nickname        string         `json:"nickname"`
	InboundAgentID  string         `json:"inboundAgentId"`
	OutboundAgentID string         `json:"outboundAgentId"`
}

// ParseCommand decodes the action envelope into a typed command, validating
// the fields each action requires.
func ParseCommand(body []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	switch env.Action {
	case ActionCreateAgent:
		if len(env.AgentConfig) == 0 {
			return nil, fmt.Errorf("agentConfig is required for %s", ActionCreateAgent)
		}
		return CreateAgentCommand{AgentConfig: env.AgentConfig}, nil
	case ActionUpdateAgent:
		if env.AgentID == "" {
			return nil, fmt.Errorf("agentId is required for %s", ActionUpdateAgent)
		}
		if len(env.AgentConfig) == 0 {
			return nil, fmt.Errorf("agentConfig is required for %s", ActionUpdateAgent)
		}
		return UpdateAgentCommand{AgentID: env.AgentID, AgentConfig: env.AgentConfig}, nil
	case ActionDeleteAgent:
		if env.AgentID == "" {
			return nil, fmt.Errorf("agentId is required for %s", ActionDeleteAgent)
		}
		return DeleteAgentCommand{AgentID: env.AgentID}, nil
	case ActionSyncPhoneNumbers:
		return SyncPhoneNumbersCommand{}, nil
	case ActionPurchasePhoneNumber:
		return PurchasePhoneNumberCommand{
			AreaCode:        env.AreaCode,
			Nickname:        env.Nickname,
			InboundAgentID:  env.InboundAgentID,
			OutboundAgentID: env.OutboundAgentID,
		}, nil
	case "":
		return nil, fmt.Errorf("action is required")
	default:
		return nil, fmt.Errorf("unknown action %q", env.Action)
	}
}
