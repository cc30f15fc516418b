package retell

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, APIKey: "key_test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, server
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestCreateAgentSendsAuthAndBody(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/create-agent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"agent_id": "agent_123", "voice_id": "anna"})
	})

	resp, err := client.CreateAgent(context.Background(), map[string]any{"voice_id": "anna"})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	if gotAuth != "Bearer key_test" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotBody["voice_id"] != "anna" {
		t.Errorf("unexpected request body: %v", gotBody)
	}
	if resp["agent_id"] != "agent_123" {
		t.Errorf("unexpected response: %v", resp)
	}
}

func TestUpdateAgentRequiresID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := client.UpdateAgent(context.Background(), " ", nil); err == nil {
		t.Fatal("expected error for empty agent id")
	}
}

func TestDeleteAgentErrorCarriesProviderMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"agent does not exist"}`))
	})

	err := client.DeleteAgent(context.Background(), "agent_missing")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "agent does not exist" {
		t.Errorf("unexpected apiErr: %+v", apiErr)
	}
}

func TestAPIErrorNonJSONBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	})

	_, err := client.CreateAgent(context.Background(), map[string]any{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "upstream exploded" {
		t.Errorf("expected raw body as message, got %q", apiErr.Message)
	}
}

func TestListPhoneNumbers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		_ = json.NewEncoder(w).Encode([]PhoneNumberResource{
			{PhoneNumberID: "pn_1", PhoneNumber: "+15550001111", InboundAgentID: "agent_1"},
		})
	})

	numbers, err := client.ListPhoneNumbers(context.Background())
	if err != nil {
		t.Fatalf("ListPhoneNumbers: %v", err)
	}
	if len(numbers) != 1 || numbers[0].PhoneNumberID != "pn_1" {
		t.Errorf("unexpected numbers: %+v", numbers)
	}
}

func TestPurchasePhoneNumber(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req PurchaseNumberRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(PhoneNumberResource{
			PhoneNumberID:  "pn_2",
			PhoneNumber:    "+14045550123",
			AreaCode:       req.AreaCode,
			Nickname:       req.Nickname,
			InboundAgentID: req.InboundAgentID,
			Status:         "active",
		})
	})

	number, err := client.PurchasePhoneNumber(context.Background(), PurchaseNumberRequest{
		AreaCode:       "404",
		Nickname:       "front desk",
		InboundAgentID: "agent_1",
	})
	if err != nil {
		t.Fatalf("PurchasePhoneNumber: %v", err)
	}
	if number.PhoneNumberID != "pn_2" || number.InboundAgentID != "agent_1" {
		t.Errorf("unexpected number: %+v", number)
	}
}

// A failed call is made exactly once: the caller owns retry policy.
func TestNoAutomaticRetry(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"transient"}`))
	})

	_, err := client.CreateAgent(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly 1 request, got %d", got)
	}
}
