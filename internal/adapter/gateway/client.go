package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	domainErrors "github.com/etproforma/commerce/internal/domain/errors"
	"github.com/etproforma/commerce/internal/domain/model"
)

// ProviderName identifies the external payment provider.
const ProviderName = "chapa"

// Client exposes operations against the external payment gateway.
type Client interface {
	Initialize(ctx context.Context, intent model.PaymentIntent) (*model.PaymentInitiation, error)
	Verify(ctx context.Context, txRef string) (*model.PaymentVerification, error)
}

// Options carry deployment-level settings passed with every session.
type Options struct {
	Currency    string
	CallbackURL string
	ReturnURL   string
}

// HTTPClient implements Client via the provider's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	secret     string
	opts       Options
	httpClient *http.Client
	logger     *slog.Logger
}

type initializeBody struct {
	Amount        string            `json:"amount"`
	Currency      string            `json:"currency"`
	Email         string            `json:"email"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	TxRef         string            `json:"tx_ref"`
	CallbackURL   string            `json:"callback_url"`
	ReturnURL     string            `json:"return_url"`
	Customization map[string]string `json:"customization"`
}

// response mirrors the provider's JSON envelope.
type response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
		Status      string `json:"status"`
	} `json:"data"`
}

// NewHTTPClient creates an HTTP gateway client with default timeout.
func NewHTTPClient(baseURL, secret string, opts Options, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		secret:  secret,
		opts:    opts,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Initialize opens a payment session and returns the hosted checkout URL.
func (c *HTTPClient) Initialize(ctx context.Context, intent model.PaymentIntent) (*model.PaymentInitiation, error) {
	firstName, lastName := splitName(intent.FullName)
	body := initializeBody{
		Amount:      intent.Amount.StringFixed(2),
		Currency:    c.opts.Currency,
		Email:       intent.Email,
		FirstName:   firstName,
		LastName:    lastName,
		TxRef:       intent.TxRef,
		CallbackURL: c.opts.CallbackURL,
		ReturnURL:   c.opts.ReturnURL,
		Customization: map[string]string{
			"title":       "Order Payment",
			"description": fmt.Sprintf("Payment for Order %d", intent.OrderID),
		},
	}

	raw, data, err := c.do(ctx, http.MethodPost, "/v1/transaction/initialize", body)
	if err != nil {
		return nil, &domainErrors.GatewayError{Op: "initialize", Detail: err.Error(), Err: err}
	}

	if data.Status != "success" || data.Data.CheckoutURL == "" {
		c.logger.Error("payment initialization rejected",
			slog.String("tx_ref", intent.TxRef),
			slog.String("provider_message", data.Message),
		)
		return nil, &domainErrors.GatewayError{Op: "initialize", Detail: data.Message}
	}

	return &model.PaymentInitiation{
		Provider:    ProviderName,
		TxRef:       intent.TxRef,
		CheckoutURL: data.Data.CheckoutURL,
		RawPayload:  raw,
	}, nil
}

// Verify fetches the authoritative verdict for a transaction reference.
func (c *HTTPClient) Verify(ctx context.Context, txRef string) (*model.PaymentVerification, error) {
	raw, data, err := c.do(ctx, http.MethodGet, path.Join("/v1/transaction/verify", txRef), nil)
	if err != nil {
		return nil, &domainErrors.GatewayError{Op: "verify", Detail: err.Error(), Err: err}
	}

	succeeded := data.Status == "success" && data.Data.Status == "success"
	return &model.PaymentVerification{TxRef: txRef, Succeeded: succeeded, RawPayload: raw}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body any) ([]byte, *response, error) {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gateway request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return nil, nil, fmt.Errorf("gateway answered %s", resp.Status)
	}

	var data response
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, nil, fmt.Errorf("decode gateway response: %w", err)
	}
	return raw, &data, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "Customer", "User"
	case 1:
		return parts[0], "User"
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
