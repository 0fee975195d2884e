/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kwasham/receipt-processing-api/receipts"
)

const auditInstructions = `
Evaluate this receipt data to determine if it need to be audited based on the following
criteria:

1. NOT_TRAVEL_RELATED:
   - IMPORTANT: For this criterion, travel-related expenses include but are not limited
   to: gas, hotel, airfare, or car rental.
   - If the receipt IS for a travel-related expense, set this to FALSE.
   - If the receipt is NOT for a travel-related expense (like office supplies), set this
   to TRUE.
   - In other words, if the receipt shows FUEL/GAS, this would be FALSE because gas IS
   travel-related.
   - Travel-related expenses include anything that could be reasonably required for
   business-related travel activities. For instance, an employee using a personal
   vehicle might need to change their oil; if the receipt is for an oil change or the
   purchase of oil from an auto parts store, this would be acceptable and counts as a
   travel-related expense.

2. AMOUNT_OVER_LIMIT: The total amount exceeds $50

3. MATH_ERROR: The math for computing the total doesn't add up (line items don't sum to
   total)
   - Add up the price and quantity of each line item to get the subtotal
   - Add tax to the subtotal to get the total
   - If the total doesn't match the amount on the receipt, this is a math error
   - If the total is off by no more than $0.01, this is NOT a math error

4. HANDWRITTEN_X: There is an "X" in the handwritten notes

For each criterion, determine if it is violated (true) or not (false). Provide your
reasoning for each decision, and make a final determination on whether the receipt needs
auditing. A receipt needs auditing if ANY of the criteria are violated.

Note that violation of a criterion means that it is ` + "`true`" + `. If any of the above four
values are ` + "`true`" + `, then the receipt needs auditing (` + "`needs_audit`" + ` should be ` + "`true`" + `: it
functions as a boolean OR over all four criteria).

If the receipt contains non-travel expenses, then NOT_TRAVEL_RELATED should be ` + "`true`" + `
and therefore NEEDS_AUDIT must also be set to ` + "`true`" + `. IF THE RECEIPT LISTS ITEMS THAT
ARE NOT TRAVEL-RELATED, THEN IT MUST BE AUDITED. Here are some example inputs to
demonstrate how you should act:

<examples>
%s
</examples>

Return a structured response with your evaluation as a single JSON object with the keys
not_travel_related, amount_over_limit, math_error, handwritten_x, reasoning, and
needs_audit.
`

// example pairs a receipt with its correct decision for the few-shot
// prompt.
type example struct {
	input  *receipts.ReceiptDetails
	output *receipts.AuditDecision
}

// auditPrompt renders the audit instructions with the worked examples.
func auditPrompt() (string, error) {
	var sb strings.Builder
	for _, ex := range auditExamples() {
		input, err := json.Marshal(ex.input)
		if err != nil {
			return "", fmt.Errorf("encoding example input: %w", err)
		}
		output, err := json.Marshal(ex.output)
		if err != nil {
			return "", fmt.Errorf("encoding example output: %w", err)
		}
		fmt.Fprintf(&sb, "\n<example>\n    <input>\n        %s\n    </input>\n    <output>\n        %s\n    </output>\n</example>\n", input, output)
	}
	return fmt.Sprintf(auditInstructions, sb.String()), nil
}

// auditExamples returns the three worked examples: a non-travel purchase
// that needs auditing, a fuel purchase that passes, and an auto-parts
// purchase that counts as travel-related.
func auditExamples() []example {
	return []example{
		{
			input: &receipts.ReceiptDetails{
				Merchant: receipts.String("WESTERN SIERRA NURSERY"),
				Location: receipts.Location{
					City:    receipts.String("Oakhurst"),
					State:   receipts.String("CA"),
					Zipcode: receipts.String("93644"),
				},
				Time: receipts.String("2024-09-27T12:33:38"),
				Items: []receipts.LineItem{{
					Description: receipts.String("Plantskydd Repellent RTU 1 Liter"),
					Category:    receipts.String("Garden/Pest Control"),
					ItemPrice:   receipts.String("24.99"),
					Quantity:    receipts.String("1"),
					Total:       receipts.String("24.99"),
				}},
				Subtotal:         receipts.String("24.99"),
				Tax:              receipts.String("1.94"),
				Total:            receipts.String("26.93"),
				HandwrittenNotes: []string{},
			},
			output: &receipts.AuditDecision{
				NotTravelRelated: true,
				Reasoning: "1. The merchant is a plant nursery and the item purchased an insecticide, so this purchase is not travel-related (criterion 1 violated). " +
					"2. The total is $26.93, under $50, so criterion 2 is not violated. " +
					"3. The line items (1 * $24.99 + $1.94 tax) sum to $26.93, so criterion 3 is not violated. " +
					"4. There are no handwritten notes or 'X's, so criterion 4 is not violated. " +
					"Since NOT_TRAVEL_RELATED is true, the receipt must be audited.",
				NeedsAudit: true,
			},
		},
		{
			input: &receipts.ReceiptDetails{
				Merchant: receipts.String("Flying J #616"),
				Location: receipts.Location{
					City:  receipts.String("Frazier Park"),
					State: receipts.String("CA"),
				},
				Time: receipts.String("2024-10-01T13:23:00"),
				Items: []receipts.LineItem{{
					Description: receipts.String("Unleaded"),
					Category:    receipts.String("Fuel"),
					ItemPrice:   receipts.String("4.459"),
					Quantity:    receipts.String("11.076"),
					Total:       receipts.String("49.39"),
				}},
				Subtotal:         receipts.String("49.39"),
				Total:            receipts.String("49.39"),
				HandwrittenNotes: []string{"yos -> home sequoia", "236660"},
			},
			output: &receipts.AuditDecision{
				Reasoning: "1. The only item purchased is Unleaded gasoline, which is travel-related so NOT_TRAVEL_RELATED is false. " +
					"2. The total is $49.39, which is under $50, so AMOUNT_OVER_LIMIT is false. " +
					"3. The line items ($4.459 * 11.076 = $49.387884) sum to the total of $49.39, so MATH_ERROR is false. " +
					"4. There is no 'X' in the handwritten notes, so HANDWRITTEN_X is false. " +
					"Since none of the criteria are violated, the receipt does not need auditing.",
			},
		},
		{
			input: &receipts.ReceiptDetails{
				Merchant: receipts.String("O'Reilly Auto Parts"),
				Location: receipts.Location{
					City:    receipts.String("Sylmar"),
					State:   receipts.String("CA"),
					Zipcode: receipts.String("91342"),
				},
				Time: receipts.String("2024-04-26T8:43:11"),
				Items: []receipts.LineItem{{
					Description: receipts.String("VAL 5W-20"),
					Category:    receipts.String("Auto"),
					ItemPrice:   receipts.String("12.28"),
					Quantity:    receipts.String("1"),
					Total:       receipts.String("12.28"),
				}},
				Subtotal:         receipts.String("12.28"),
				Tax:              receipts.String("1.07"),
				Total:            receipts.String("13.35"),
				HandwrittenNotes: []string{"vista -> yos"},
			},
			output: &receipts.AuditDecision{
				Reasoning: "1. The only item purchased is engine oil, which might be required for a vehicle while traveling, so NOT_TRAVEL_RELATED is false. " +
					"2. The total is $13.35, which is under $50, so AMOUNT_OVER_LIMIT is false. " +
					"3. The line items ($12.28 + $1.07 tax) sum to the total of $13.35, so MATH_ERROR is false. " +
					"4. There is no 'X' in the handwritten notes, so HANDWRITTEN_X is false. " +
					"None of the criteria are violated so the receipt does not need to be audited.",
			},
		},
	}
}
