package delivery_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"checkinq/internal/checkin"
	"checkinq/internal/delivery"
	"checkinq/internal/testsupport"
)

func TestDeliverPostsPayload(t *testing.T) {
	var (
		gotPath   string
		gotAuth   string
		gotAgent  string
		gotMethod string
		payload   map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, err := delivery.New(server.URL+"/api/monopoly/", delivery.WithToken("secret"), delivery.WithUserAgent("checkinq-test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	item := testsupport.SampleCheckin(2)
	if err := client.Deliver(context.Background(), 17, item); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("unexpected method %s", gotMethod)
	}
	if gotPath != "/api/monopoly/teams/17/checkin" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotAgent != "checkinq-test" {
		t.Fatalf("unexpected user agent %q", gotAgent)
	}
	if payload["idempotency_key"] != item.ClientKey {
		t.Fatalf("unexpected idempotency key %v", payload["idempotency_key"])
	}
	if payload["location_id"] != float64(item.PlaceID) {
		t.Fatalf("unexpected location id %v", payload["location_id"])
	}
	if payload["client_time"] != item.DateTime {
		t.Fatalf("unexpected client time %v", payload["client_time"])
	}
	loc, ok := payload["client_location"].(map[string]any)
	if !ok || loc["latitude"] != item.Location.Latitude || loc["longitude"] != item.Location.Longitude {
		t.Fatalf("unexpected client location %v", payload["client_location"])
	}
	photo, ok := payload["photo"].(map[string]any)
	if !ok {
		t.Fatalf("missing photo in %v", payload)
	}
	if photo["file_name"] != item.Photo.FileName || photo["mime_type"] != item.Photo.MimeType || photo["base64_data"] != item.Photo.Base64Data {
		t.Fatalf("unexpected photo %v", photo)
	}
}

func TestDeliverSendsNullLocation(t *testing.T) {
	var raw string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		raw = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := delivery.New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.Deliver(context.Background(), 1, testsupport.SampleCheckin(1)); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if !strings.Contains(raw, `"client_location":null`) {
		t.Fatalf("expected explicit null location, got %s", raw)
	}
}

func TestDeliverRejectsNon2xx(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"redirect", http.StatusFound},
		{"conflict", http.StatusConflict},
		{"server error", http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.status == http.StatusFound {
					w.Header().Set("Location", "/elsewhere")
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(strings.Repeat("x", 5000)))
			}))
			defer server.Close()

			noRedirect := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			}}
			client, err := delivery.New(server.URL, delivery.WithHTTPClient(noRedirect))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			err = client.Deliver(context.Background(), 1, testsupport.SampleCheckin(1))
			if !errors.Is(err, checkin.ErrDelivery) {
				t.Fatalf("expected ErrDelivery, got %v", err)
			}
			var derr *checkin.DeliveryError
			if !errors.As(err, &derr) {
				t.Fatalf("expected *DeliveryError, got %T", err)
			}
			if derr.StatusCode != tc.status {
				t.Fatalf("unexpected status %d", derr.StatusCode)
			}
			if len(derr.Body) > 2048 {
				t.Fatalf("expected bounded body, got %d bytes", len(derr.Body))
			}
		})
	}
}

func TestDeliverTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client, err := delivery.New(server.URL, delivery.WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = client.Deliver(context.Background(), 1, testsupport.SampleCheckin(1))
	var derr *checkin.DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DeliveryError, got %v", err)
	}
	if derr.StatusCode != 0 || derr.Err == nil {
		t.Fatalf("expected transport error, got %+v", derr)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL("https://game.example.com/api"))
	cfg.Remote.APIToken = "tok"
	client, err := delivery.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if got := client.Endpoint(5); got != "https://game.example.com/api/teams/5/checkin" {
		t.Fatalf("unexpected endpoint %s", got)
	}
	if _, err := delivery.New("  "); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
