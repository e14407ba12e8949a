package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/railqa/railcheck/internal/config"
)

// crmTestServer tracks calls made against a fake CRM API
type crmTestServer struct {
	server        *httptest.Server
	tokenRequests int
	patchedPaths  []string
	patchedBodies []map[string]interface{}
	queryResponse string
}

func newCRMTestServer(t *testing.T) *crmTestServer {
	t.Helper()

	ts := &crmTestServer{
		queryResponse: `{"totalSize": 1, "done": true, "records": [{"Id": "SF-ORDER-1"}]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		ts.tokenRequests++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token": "crm-token", "instance_url": %q, "token_type": "Bearer", "expires_in": 3600}`, ts.server.URL)
	})
	mux.HandleFunc("/services/data/v60.0/query/", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer crm-token" {
			t.Errorf("Authorization = %q, want Bearer crm-token", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(ts.queryResponse))
	})
	mux.HandleFunc("/services/data/v63.0/sobjects/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("sobjects method = %s, want PATCH", r.Method)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		ts.patchedPaths = append(ts.patchedPaths, r.URL.Path)
		ts.patchedBodies = append(ts.patchedBodies, body)
		w.WriteHeader(http.StatusNoContent)
	})

	ts.server = httptest.NewServer(mux)
	t.Cleanup(ts.server.Close)

	return ts
}

func (ts *crmTestServer) config() *config.CRMConfig {
	return &config.CRMConfig{
		AuthURL:      ts.server.URL + "/auth/token",
		ClientID:     "crm-client",
		ClientSecret: "crm-secret",
		InstanceURL:  ts.server.URL,
	}
}

func TestLookupOrderID(t *testing.T) {
	ts := newCRMTestServer(t)
	client := NewCRMClient(ts.config())

	orderID, err := client.LookupOrderID(context.Background(), "ORD-12345")
	if err != nil {
		t.Fatalf("LookupOrderID() unexpected error = %v", err)
	}
	if orderID != "SF-ORDER-1" {
		t.Errorf("LookupOrderID() = %q, want SF-ORDER-1", orderID)
	}
}

func TestLookupOrderIDBadResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no matching order", `{"totalSize": 0, "done": true, "records": []}`},
		{"several matching orders", `{"totalSize": 2, "done": true, "records": [{"Id": "a"}, {"Id": "b"}]}`},
		{"query incomplete", `{"totalSize": 1, "done": false, "records": [{"Id": "a"}]}`},
		{"record without id", `{"totalSize": 1, "done": true, "records": [{"Id": ""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newCRMTestServer(t)
			ts.queryResponse = tt.response
			client := NewCRMClient(ts.config())

			if _, err := client.LookupOrderID(context.Background(), "ORD-12345"); err == nil {
				t.Error("LookupOrderID() expected error, got nil")
			}
		})
	}
}

func TestApproveOrderItem(t *testing.T) {
	ts := newCRMTestServer(t)
	client := NewCRMClient(ts.config())

	if err := client.ApproveOrderItem(context.Background(), "item-001"); err != nil {
		t.Fatalf("ApproveOrderItem() unexpected error = %v", err)
	}

	if len(ts.patchedPaths) != 1 {
		t.Fatalf("expected 1 PATCH, got %d", len(ts.patchedPaths))
	}
	if ts.patchedPaths[0] != "/services/data/v63.0/sobjects/OrderItem/item-001" {
		t.Errorf("patched path = %q", ts.patchedPaths[0])
	}

	body := ts.patchedBodies[0]
	if body["Documents_Received__c"] != true {
		t.Error("expected Documents_Received__c to be true")
	}
	if body["Status__c"] != "Approved Application" {
		t.Errorf("Status__c = %v, want Approved Application", body["Status__c"])
	}
	if body["Eligible__c"] != true {
		t.Error("expected Eligible__c to be true")
	}
}

func TestCompleteOrder(t *testing.T) {
	ts := newCRMTestServer(t)
	client := NewCRMClient(ts.config())

	if err := client.CompleteOrder(context.Background(), "SF-ORDER-1"); err != nil {
		t.Fatalf("CompleteOrder() unexpected error = %v", err)
	}

	if len(ts.patchedPaths) != 1 {
		t.Fatalf("expected 1 PATCH, got %d", len(ts.patchedPaths))
	}
	if ts.patchedPaths[0] != "/services/data/v63.0/sobjects/Order/SF-ORDER-1" {
		t.Errorf("patched path = %q", ts.patchedPaths[0])
	}
	if ts.patchedBodies[0]["Status"] != "Activated" {
		t.Errorf("Status = %v, want Activated", ts.patchedBodies[0]["Status"])
	}
}

func TestCRMTokenIsCached(t *testing.T) {
	ts := newCRMTestServer(t)
	client := NewCRMClient(ts.config())
	ctx := context.Background()

	if _, err := client.LookupOrderID(ctx, "ORD-1"); err != nil {
		t.Fatalf("LookupOrderID() unexpected error = %v", err)
	}
	if err := client.ApproveOrderItem(ctx, "item-001"); err != nil {
		t.Fatalf("ApproveOrderItem() unexpected error = %v", err)
	}
	if err := client.CompleteOrder(ctx, "SF-ORDER-1"); err != nil {
		t.Fatalf("CompleteOrder() unexpected error = %v", err)
	}

	if ts.tokenRequests != 1 {
		t.Errorf("expected 1 token request across calls, got %d", ts.tokenRequests)
	}
}

func TestCRMAuthFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid_client"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewCRMClient(&config.CRMConfig{
		AuthURL:      server.URL + "/auth/token",
		ClientID:     "bad",
		ClientSecret: "bad",
		InstanceURL:  server.URL,
	})

	_, err := client.LookupOrderID(context.Background(), "ORD-1")

	var external *ExternalServiceError
	if !errors.As(err, &external) {
		t.Fatalf("LookupOrderID() error = %v, want *ExternalServiceError", err)
	}
	if external.Service != "crm" {
		t.Errorf("Service = %q, want crm", external.Service)
	}
}
