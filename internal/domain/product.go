package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Product is the read-only projection of a Shopify product served to the app
type Product struct {
	ID       uint64 `json:"id"`
	Title    string `json:"title"`
	BodyHTML string `json:"body_html"`
}

// ProductID accepts either a JSON string or a JSON number
type ProductID string

// UnmarshalJSON implements json.Unmarshaler
func (p *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*p = ProductID(n.String())
	return nil
}

// Uint64 parses the id as a numeric Shopify resource id
func (p ProductID) Uint64() (uint64, error) {
	id, err := strconv.ParseUint(string(p), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid productId %q", ErrMissingParameter, string(p))
	}
	return id, nil
}

// FAQ metafield location on a product
const (
	FAQMetafieldNamespace = "custom"
	FAQMetafieldKey       = "faqs"
	FAQMetafieldType      = "json"
)
