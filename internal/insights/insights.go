// Package insights asks Gemini for a business-consultant read of the
// dashboard summary.
package insights

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/sherokitchen/manager/internal/report"
)

const model = "gemini-2.5-flash"

const promptTemplate = `You are a strategic business consultant for a home-based food business.
The business operates on a revenue-share model:
- "Total Sales Value" is what the customer pays.
- "My Share" is the revenue the business owner actually gets.
- "Shero Share" is the commission paid to the platform.

Data Context:
%s

Provide a strategic analysis:
1. **Profitability Health**: Analyze 'Net Profit' (My Share - Expenses). Is the margin on 'My Share' sustainable?
2. **Menu Optimization**: Look at top items. Are they high-margin items? Suggest focusing on items where 'My Share' is higher relative to effort.
3. **Cost Control**: Suggest generic ways to reduce 'Expenses' based on the total expense value.
4. **Growth**: Should they expand?

Keep the tone professional, encouraging, and actionable. Use markdown formatting.`

// Consultant generates narrative analysis from business summaries.
type Consultant struct {
	client *genai.Client
}

// NewConsultant initializes the Gemini client. Credentials come from the
// environment (GEMINI_API_KEY).
func NewConsultant(ctx context.Context) (*Consultant, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &Consultant{client: client}, nil
}

// Analyze sends the summary to the model and returns its markdown narrative.
func (c *Consultant) Analyze(ctx context.Context, summary report.BusinessSummary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	prompt := fmt.Sprintf(promptTemplate, data)
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate insights: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "Unable to generate insights at this time.", nil
	}
	return text, nil
}
