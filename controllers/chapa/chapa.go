package chapaControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	orderControllers "github.com/firo1919/e-commerce-sub000/controllers/order"
)

// initializeResponse represents the Chapa initialize response
type initializeResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Data    *struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// Client talks to Chapa's hosted-checkout API. It implements
// orderControllers.PaymentGateway.
type Client struct {
	APIURL      string
	SecretKey   string
	CallbackURL string
	ReturnURL   string
	HTTP        *http.Client
}

func NewClient(apiURL, secretKey, callbackURL, returnURL string, timeout time.Duration) *Client {
	return &Client{
		APIURL:      apiURL,
		SecretKey:   secretKey,
		CallbackURL: callbackURL,
		ReturnURL:   returnURL,
		HTTP:        &http.Client{Timeout: timeout},
	}
}

// Initialize starts a transaction and returns the checkout URL the shopper is
// redirected to. Any transport error, non-200, gateway-side rejection or
// malformed response is an initialization failure.
func (cl *Client) Initialize(ctx context.Context, req orderControllers.PaymentRequest) (*orderControllers.PaymentSession, error) {
	payload := map[string]interface{}{
		"amount":       fmt.Sprintf("%.2f", req.Amount),
		"currency":     req.Currency,
		"email":        req.Email,
		"first_name":   req.FirstName,
		"last_name":    req.LastName,
		"phone_number": req.Phone,
		"tx_ref":       req.TxRef,
		"callback_url": cl.CallbackURL,
		"return_url":   cl.ReturnURL,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cl.SecretKey)

	resp, err := cl.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Chapa: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chapa API error (%d): %s", resp.StatusCode, string(body))
	}

	var chapaResp initializeResponse
	if err := json.Unmarshal(body, &chapaResp); err != nil {
		return nil, fmt.Errorf("failed to parse Chapa response: %v", err)
	}

	if chapaResp.Status != "success" {
		return nil, fmt.Errorf("chapa error: %s", chapaResp.Message)
	}

	if chapaResp.Data == nil || chapaResp.Data.CheckoutURL == "" {
		return nil, fmt.Errorf("chapa returned empty checkout URL")
	}

	return &orderControllers.PaymentSession{CheckoutURL: chapaResp.Data.CheckoutURL}, nil
}
