package flutterwave

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client talks to the Flutterwave v3 REST API
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a Flutterwave client from the environment. Returns an
// error when no secret key is configured.
func NewClient() (*Client, error) {
	secretKey := os.Getenv("FLUTTERWAVE_SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("FLUTTERWAVE_SECRET_KEY not configured")
	}

	baseURL := os.Getenv("FLUTTERWAVE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.flutterwave.com/v3"
	}

	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// PaymentRequest is the payload for initiating a hosted payment
type PaymentRequest struct {
	TxRef       string            `json:"tx_ref"`
	Amount      string            `json:"amount"`
	Currency    string            `json:"currency"`
	RedirectURL string            `json:"redirect_url"`
	Customer    Customer          `json:"customer"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// Customer identifies the payer
type Customer struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phonenumber,omitempty"`
}

// PaymentResponse is the response to a payment initiation
type PaymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// VerifyResponse is the response to a transaction verification
type VerifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID       int64   `json:"id"`
		TxRef    string  `json:"tx_ref"`
		Status   string  `json:"status"`
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"data"`
}

// Bank describes a supported bank for transfers
type Bank struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// BanksResponse is the response to a bank listing
type BanksResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    []Bank `json:"data"`
}

// InitiatePayment creates a hosted payment and returns the checkout link
func (c *Client) InitiatePayment(req *PaymentRequest) (*PaymentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	var resp PaymentResponse
	if err := c.do(http.MethodPost, "/payments", body, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("flutterwave payment initiation failed: %s", resp.Message)
	}
	return &resp, nil
}

// VerifyTransaction verifies a transaction by its Flutterwave ID
func (c *Client) VerifyTransaction(transactionID int64) (*VerifyResponse, error) {
	var resp VerifyResponse
	path := fmt.Sprintf("/transactions/%d/verify", transactionID)
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListBanks lists supported banks for the given country code
func (c *Client) ListBanks(country string) ([]Bank, error) {
	var resp BanksResponse
	path := fmt.Sprintf("/banks/%s", country)
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("flutterwave bank listing failed: %s", resp.Message)
	}
	return resp.Data, nil
}

func (c *Client) do(method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("flutterwave request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("flutterwave returned status %d: %s", resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
