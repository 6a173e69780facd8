package storefront

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/narayanji/distributor-app/internal/app/model"
)

// TokenSource yields the current session token. An empty token is not an
// error; requests are simply sent unauthenticated and the server decides.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource holding a fixed token. Useful in tests and in
// short-lived commands that load the token once.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// Session is the payload returned by a successful OTP verification.
type Session struct {
	AccessToken string `json:"access_token"`
	Name        string `json:"name"`
}

// SubmitOrderRequest carries SKU/quantity pairs only. Prices are
// authoritative server-side and are never sent by the client.
type SubmitOrderRequest struct {
	Items []model.CartLine `json:"items"`
}

type productListEnvelope struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodeProductList accepts both catalog response shapes: the canonical
// {products, total} envelope and a bare product array.
func decodeProductList(data []byte) ([]model.Product, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var products []model.Product
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return nil, 0, fmt.Errorf("failed to decode product list: %w", err)
		}
		return products, len(products), nil
	}

	var envelope productListEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, 0, fmt.Errorf("failed to decode product envelope: %w", err)
	}
	return envelope.Products, envelope.Total, nil
}
