package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseReceiptJSON parses the JSON response from a vision model
func parseReceiptJSON(text string) (*ReceiptData, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON object boundaries - look for first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}

	text = text[startIdx : endIdx+1]

	var data ReceiptData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	data.Vendor = strings.TrimSpace(data.Vendor)
	data.Date = strings.TrimSpace(data.Date)
	data.ID = strings.TrimSpace(data.ID)
	if data.Category == nil {
		data.Category = []string{}
	}
	if data.PaymentMethod == nil {
		data.PaymentMethod = []string{}
	}
	if !data.IsValidReceipt && data.ValidationError == "" {
		data.ValidationError = "Model did not recognize a receipt"
	}

	return &data, nil
}
