package scanning

import (
	"fmt"
	"strings"

	"receiptranger/internal/receipt"
)

// receiptScanPrompt is the shared prompt template used by all LLM providers.
// The two placeholders take the canonical category vocabulary and the user's
// exclusion criteria.
const receiptScanPrompt = `You are analyzing a photographed receipt. Carefully read all text in the image and extract the following information:

1. **Validity**: Decide whether the image actually shows a purchase receipt or invoice. If it does not (a landscape photo, a menu, a blank page), set "isValidReceipt" to false and explain in "validationError".

2. **Total Amount**: Find the final total, grand total, or amount due, usually at the bottom, labeled "TOTAL", "Amount Due", or similar. Extract only the numeric value (e.g., 42.75 for $42.75).

3. **Date**: Find the transaction or purchase date and return it in MM/DD/YYYY format.

4. **Vendor**: The merchant, store, or business name, usually the largest text at the top.

5. **Category**: One or more labels from this exact list (use these spellings, nothing else):
%s

6. **Payment Method**: How the purchase was paid, e.g. "Visa ending 1234", "Cash", "Debit".

7. **Exclusion**: The user excludes some purchases from their expense table. Their criteria:
%s
If this receipt matches the criteria, set "excludeFromTable" to true and state the matching rule in "exclusionReason".

Return ONLY valid JSON in this exact format:
{
  "id": "short unique string for this receipt",
  "amount": 0.00,
  "date": "MM/DD/YYYY",
  "vendor": "Store Name",
  "category": ["Category"],
  "paymentMethod": ["Method"],
  "isValidReceipt": true,
  "validationError": "",
  "excludeFromTable": false,
  "exclusionReason": ""
}

Important:
- The amount must be a number (not a string), representing dollars and cents
- category entries must come from the list above
- If you cannot find a field, use an empty string or empty list for it
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// buildPrompt fills the scan prompt template with the category vocabulary and
// the caller's exclusion criteria.
func buildPrompt(exclusionCriteria string) string {
	labels := make([]string, len(receipt.CanonicalCategories))
	for i, label := range receipt.CanonicalCategories {
		labels[i] = "   - " + label
	}
	criteria := strings.TrimSpace(exclusionCriteria)
	if criteria == "" {
		criteria = "No exclusion criteria configured."
	}
	return fmt.Sprintf(receiptScanPrompt, strings.Join(labels, "\n"), criteria)
}
