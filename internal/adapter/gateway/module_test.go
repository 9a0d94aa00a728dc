package gateway

import (
	"testing"

	"github.com/etproforma/commerce/internal/config"
)

func TestNewClientUsesConfig(t *testing.T) {
	cfg := &config.Config{
		GatewayAddress: "https://api.chapa.co",
		GatewaySecret:  "CHASECK-test",
		Currency:       "ETB",
		CallbackURL:    "https://shop.example/api/payment/callback",
		ReturnURL:      "https://shop.example/orders",
	}
	client, err := newClient(clientParams{Config: cfg, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("expected client instance")
	}
}

func TestNewClientRejectsBadAddress(t *testing.T) {
	cfg := &config.Config{GatewayAddress: "not-a-url"}
	if _, err := newClient(clientParams{Config: cfg, Logger: discardLogger()}); err == nil {
		t.Fatal("expected error for bad gateway address")
	}
}
