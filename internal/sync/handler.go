package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/atf-io/voicehub-sub001/internal/agents"
	"github.com/atf-io/voicehub-sub001/internal/http/respond"
	observemetrics "github.com/atf-io/voicehub-sub001/internal/observability/metrics"
	"github.com/atf-io/voicehub-sub001/internal/phonenumbers"
	"github.com/atf-io/voicehub-sub001/internal/retell"
	"github.com/atf-io/voicehub-sub001/internal/tenancy"
	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

type providerClient interface {
	CreateAgent(ctx context.Context, config map[string]any) (map[string]any, error)
	UpdateAgent(ctx context.Context, agentID string, config map[string]any) (map[string]any, error)
	DeleteAgent(ctx context.Context, agentID string) error
	ListPhoneNumbers(ctx context.Context) ([]retell.PhoneNumberResource, error)
	PurchasePhoneNumber(ctx context.Context, req retell.PurchaseNumberRequest) (*retell.PhoneNumberResource, error)
}

type agentStore interface {
	Get(ctx context.Context, accountID, id string) (*agents.Agent, error)
	GetByProviderAgentID(ctx context.Context, accountID, providerAgentID string) (*agents.Agent, error)
	Create(ctx context.Context, agent *agents.Agent) error
	Update(ctx context.Context, agent *agents.Agent) error
	Delete(ctx context.Context, accountID, id string) error
}

type numberStore interface {
	List(ctx context.Context, accountID string) ([]phonenumbers.PhoneNumber, error)
	Upsert(ctx context.Context, n *phonenumbers.PhoneNumber) error
}

// Handler multiplexes agent lifecycle actions against the voice-AI provider.
// Every action either fully succeeds (provider call + local persistence) or
// persists nothing.
type Handler struct {
	provider providerClient
	agents   agentStore
	numbers  numberStore
	metrics  *observemetrics.SyncMetrics
	logger   *logging.Logger
}

type HandlerConfig struct {
	Provider   providerClient
	AgentStore agentStore
	Numbers    numberStore
	Metrics    *observemetrics.SyncMetrics
	Logger     *logging.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Handler{
		provider: cfg.Provider,
		agents:   cfg.AgentStore,
		numbers:  cfg.Numbers,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// POST /api/retell-sync
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to read body")
		return
	}
	cmd, err := ParseCommand(body)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	switch c := cmd.(type) {
	case CreateAgentCommand:
		h.createAgent(w, r, accountID, c)
	case UpdateAgentCommand:
		h.updateAgent(w, r, accountID, c)
	case DeleteAgentCommand:
		h.deleteAgent(w, r, accountID, c)
	case SyncPhoneNumbersCommand:
		h.syncPhoneNumbers(w, r, accountID)
	case PurchasePhoneNumberCommand:
		h.purchasePhoneNumber(w, r, accountID, c)
	default:
		// ParseCommand only returns the variants above.
		respond.Error(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *Handler) createAgent(w http.ResponseWriter, r *http.Request, accountID string, cmd CreateAgentCommand) {
	config := sanitizeClientConfig(cmd.AgentConfig)
	if err := validateNumericFields(config); err != nil {
		h.observe(ActionCreateAgent, "validation_error")
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// The config must decode onto a record before the provider sees it, so a
	// malformed payload can never leave an orphan agent on the provider side.
	record := &agents.Agent{AccountID: accountID, Active: true}
	if err := applyConfig(record, config); err != nil {
		h.observe(ActionCreateAgent, "validation_error")
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.callProvider(r.Context(), ActionCreateAgent, func(ctx context.Context) (map[string]any, error) {
		return h.provider.CreateAgent(ctx, agents.ToProviderKeys(config))
	})
	if err != nil {
		h.respondProviderError(w, ActionCreateAgent, err)
		return
	}

	if err := h.applyProviderResponse(record, resp); err != nil {
		h.observe(ActionCreateAgent, "internal_error")
		respond.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := h.agents.Create(r.Context(), record); err != nil {
		h.logger.Error("persist agent failed", "error", err, "account_id", accountID)
		h.observe(ActionCreateAgent, "internal_error")
		respond.Error(w, http.StatusInternalServerError, "failed to persist agent")
		return
	}

	h.observe(ActionCreateAgent, "ok")
	respond.JSON(w, http.StatusCreated, record)
}

func (h *Handler) updateAgent(w http.ResponseWriter, r *http.Request, accountID string, cmd UpdateAgentCommand) {
	record, err := h.agents.Get(r.Context(), accountID, cmd.AgentID)
	if err != nil {
		if errors.Is(err, agents.ErrAgentNotFound) {
			h.observe(ActionUpdateAgent, "not_found")
			respond.Error(w, http.StatusNotFound, "agent not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load agent")
		return
	}

	patch := sanitizeClientConfig(cmd.AgentConfig)
	if err := validateNumericFields(patch); err != nil {
		h.observe(ActionUpdateAgent, "validation_error")
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// Merge before any provider call: a patch that fails to decode must be
	// rejected while both sides are still untouched.
	merged := *record
	if err := applyConfig(&merged, patch); err != nil {
		h.observe(ActionUpdateAgent, "validation_error")
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var resp map[string]any
	if record.Synced() {
		resp, err = h.callProvider(r.Context(), ActionUpdateAgent, func(ctx context.Context) (map[string]any, error) {
			return h.provider.UpdateAgent(ctx, *record.ProviderAgentID, agents.ToProviderKeys(patch))
		})
	} else {
		// Draft record: an update promotes it to live by creating it on the
		// provider with the merged configuration.
		resp, err = h.callProvider(r.Context(), ActionUpdateAgent, func(ctx context.Context) (map[string]any, error) {
			return h.provider.CreateAgent(ctx, agents.ToProviderKeys(fullConfig(&merged)))
		})
	}
	if err != nil {
		h.respondProviderError(w, ActionUpdateAgent, err)
		return
	}

	record = &merged
	if err := h.applyProviderResponse(record, resp); err != nil {
		h.observe(ActionUpdateAgent, "internal_error")
		respond.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := h.agents.Update(r.Context(), record); err != nil {
		h.logger.Error("persist agent update failed", "error", err, "agent_id", record.ID)
		h.observe(ActionUpdateAgent, "internal_error")
		respond.Error(w, http.StatusInternalServerError, "failed to persist agent")
		return
	}

	h.observe(ActionUpdateAgent, "ok")
	respond.JSON(w, http.StatusOK, record)
}

func (h *Handler) deleteAgent(w http.ResponseWriter, r *http.Request, accountID string, cmd DeleteAgentCommand) {
	record, err := h.agents.Get(r.Context(), accountID, cmd.AgentID)
	if err != nil {
		if errors.Is(err, agents.ErrAgentNotFound) {
			h.observe(ActionDeleteAgent, "not_found")
			respond.Error(w, http.StatusNotFound, "agent not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load agent")
		return
	}

	// Provider first. If that fails the local record stays so the user can
	// retry; the reverse (provider gone, local row removed) is never allowed
	// to happen in the other order.
	if record.Synced() {
		start := time.Now()
		err := h.provider.DeleteAgent(r.Context(), *record.ProviderAgentID)
		h.metrics.ObserveProviderLatency(ActionDeleteAgent, time.Since(start).Seconds())
		if err != nil {
			h.respondProviderError(w, ActionDeleteAgent, err)
			return
		}
	}

	if err := h.agents.Delete(r.Context(), accountID, cmd.AgentID); err != nil && !errors.Is(err, agents.ErrAgentNotFound) {
		h.logger.Error("local delete failed after provider delete", "error", err, "agent_id", cmd.AgentID)
		h.observe(ActionDeleteAgent, "degraded")
		respond.Error(w, http.StatusInternalServerError, "provider agent deleted; local cleanup failed, retry the delete")
		return
	}

	h.observe(ActionDeleteAgent, "ok")
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) syncPhoneNumbers(w http.ResponseWriter, r *http.Request, accountID string) {
	start := time.Now()
	remote, err := h.provider.ListPhoneNumbers(r.Context())
	h.metrics.ObserveProviderLatency(ActionSyncPhoneNumbers, time.Since(start).Seconds())
	if err != nil {
		h.respondProviderError(w, ActionSyncPhoneNumbers, err)
		return
	}

	for _, resource := range remote {
		n := phonenumbers.PhoneNumber{
			AccountID:        accountID,
			ProviderNumberID: resource.PhoneNumberID,
			Number:           resource.PhoneNumber,
			Nickname:         resource.Nickname,
			AreaCode:         resource.AreaCode,
			Status:           resource.Status,
		}
		n.InboundAgentID = h.localAgentID(r.Context(), accountID, resource.InboundAgentID)
		n.OutboundAgentID = h.localAgentID(r.Context(), accountID, resource.OutboundAgentID)
		if err := h.numbers.Upsert(r.Context(), &n); err != nil {
			h.logger.Error("upsert phone number failed", "error", err, "provider_number_id", resource.PhoneNumberID)
			h.observe(ActionSyncPhoneNumbers, "internal_error")
			respond.Error(w, http.StatusInternalServerError, "failed to persist phone numbers")
			return
		}
	}

	local, err := h.numbers.List(r.Context(), accountID)
	if err != nil {
		h.observe(ActionSyncPhoneNumbers, "internal_error")
		respond.Error(w, http.StatusInternalServerError, "failed to list phone numbers")
		return
	}

	h.observe(ActionSyncPhoneNumbers, "ok")
	respond.JSON(w, http.StatusOK, local)
}

func (h *Handler) purchasePhoneNumber(w http.ResponseWriter, r *http.Request, accountID string, cmd PurchasePhoneNumberCommand) {
	req := retell.PurchaseNumberRequest{AreaCode: cmd.AreaCode, Nickname: cmd.Nickname}

	inbound, err := h.resolveSyncedAgent(r.Context(), accountID, cmd.InboundAgentID, "inbound")
	if err != nil {
		h.observe(ActionPurchasePhoneNumber, "validation_error")
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	outbound, err := h.resolveSyncedAgent(r.Context(), accountID, cmd.OutboundAgentID, "outbound")
	if err != nil {
		h.observe(ActionPurchasePhoneNumber, "validation_error")
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if inbound != nil {
		req.InboundAgentID = *inbound.ProviderAgentID
	}
	if outbound != nil {
		req.OutboundAgentID = *outbound.ProviderAgentID
	}

	start := time.Now()
	resource, err := h.provider.PurchasePhoneNumber(r.Context(), req)
	h.metrics.ObserveProviderLatency(ActionPurchasePhoneNumber, time.Since(start).Seconds())
	if err != nil {
		h.respondProviderError(w, ActionPurchasePhoneNumber, err)
		return
	}

	n := phonenumbers.PhoneNumber{
		AccountID:        accountID,
		ProviderNumberID: resource.PhoneNumberID,
		Number:           resource.PhoneNumber,
		Nickname:         cmd.Nickname,
		AreaCode:         resource.AreaCode,
		Status:           resource.Status,
	}
	if inbound != nil {
		n.InboundAgentID = &inbound.ID
	}
	if outbound != nil {
		n.OutboundAgentID = &outbound.ID
	}
	if err := h.numbers.Upsert(r.Context(), &n); err != nil {
		h.logger.Error("persist purchased number failed", "error", err, "number", resource.PhoneNumber)
		h.observe(ActionPurchasePhoneNumber, "internal_error")
		respond.Error(w, http.StatusInternalServerError, "failed to persist phone number")
		return
	}

	h.observe(ActionPurchasePhoneNumber, "ok")
	respond.JSON(w, http.StatusCreated, n)
}

// resolveSyncedAgent validates an optional agent association. An agent that
// has never been synced has no provider id and cannot take calls.
func (h *Handler) resolveSyncedAgent(ctx context.Context, accountID, agentID, role string) (*agents.Agent, error) {
	if agentID == "" {
		return nil, nil
	}
	agent, err := h.agents.Get(ctx, accountID, agentID)
	if err != nil {
		if errors.Is(err, agents.ErrAgentNotFound) {
			return nil, fmt.Errorf("%s agent %s not found", role, agentID)
		}
		return nil, err
	}
	if !agent.Synced() {
		return nil, fmt.Errorf("%s agent %s has not been synced to the provider", role, agentID)
	}
	return agent, nil
}

func (h *Handler) localAgentID(ctx context.Context, accountID, providerAgentID string) *string {
	if providerAgentID == "" {
		return nil
	}
	agent, err := h.agents.GetByProviderAgentID(ctx, accountID, providerAgentID)
	if err != nil {
		return nil
	}
	return &agent.ID
}

func (h *Handler) callProvider(ctx context.Context, action string, fn func(context.Context) (map[string]any, error)) (map[string]any, error) {
	start := time.Now()
	resp, err := fn(ctx)
	h.metrics.ObserveProviderLatency(action, time.Since(start).Seconds())
	return resp, err
}

// applyProviderResponse translates the provider payload back to the client
// convention and merges it onto the record, including the provider agent id
// and provider-owned stats.
func (h *Handler) applyProviderResponse(record *agents.Agent, resp map[string]any) error {
	if resp == nil {
		return nil
	}
	client := agents.ToClientKeys(resp)

	if id, ok := client["agentId"].(string); ok && id != "" {
		record.ProviderAgentID = &id
	}
	delete(client, "agentId")
	delete(client, "id")
	delete(client, "accountId")
	delete(client, "createdAt")
	delete(client, "updatedAt")
	delete(client, "lastModificationTimestamp")

	if err := applyConfig(record, client); err != nil {
		return fmt.Errorf("invalid provider response: %w", err)
	}
	if record.ProviderAgentID == nil || *record.ProviderAgentID == "" {
		return errors.New("provider response missing agent id")
	}
	return nil
}

func (h *Handler) respondProviderError(w http.ResponseWriter, action string, err error) {
	h.observe(action, "provider_error")
	var apiErr *retell.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		respond.Error(w, http.StatusBadGateway, apiErr.Message)
		return
	}
	h.logger.Error("provider call failed", "action", action, "error", err)
	respond.Error(w, http.StatusBadGateway, "voice provider request failed")
}

func (h *Handler) observe(action, status string) {
	h.metrics.ObserveAction(action, status)
}

// applyConfig decodes a client-keyed config map onto the record, touching
// only the provided fields.
func applyConfig(record *agents.Agent, config map[string]any) error {
	raw, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("invalid agent config: %w", err)
	}
	if err := json.Unmarshal(raw, record); err != nil {
		return fmt.Errorf("invalid agent config: %w", err)
	}
	return nil
}

// fullConfig renders the record as a client-keyed map for promotion of a
// draft to the provider.
func fullConfig(record *agents.Agent) map[string]any {
	raw, _ := json.Marshal(record)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	delete(out, "id")
	delete(out, "accountId")
	delete(out, "providerAgentId")
	delete(out, "totalCalls")
	delete(out, "avgDurationSecs")
	delete(out, "satisfactionScore")
	delete(out, "createdAt")
	delete(out, "updatedAt")
	return out
}

// Client-writable config never includes identity or provider-owned stats.
func sanitizeClientConfig(config map[string]any) map[string]any {
	out := make(map[string]any, len(config))
	for key, value := range config {
		switch key {
		case "id", "accountId", "providerAgentId", "agentId",
			"totalCalls", "avgDurationSecs", "satisfactionScore",
			"createdAt", "updatedAt":
			continue
		}
		out[key] = value
	}
	return out
}

var numericConfigKeys = []string{
	"responseDelayMs", "interruptionSensitivity", "backchannelFrequency",
	"voiceTemperature", "voiceSpeed", "volume",
	"voicemailTimeoutMs", "maxCallDurationMs", "reminderTriggerMs", "reminderCount",
}

// validateNumericFields rejects non-numeric values for numeric tuning fields.
// A field is either a valid number or absent; absence means provider default.
func validateNumericFields(config map[string]any) error {
	for _, key := range numericConfigKeys {
		value, present := config[key]
		if !present || value == nil {
			continue
		}
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("field %s must be a number", key)
		}
	}
	return nil
}
