package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"clearmoney/domain"
)

const defaultChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

const explanationSystemPrompt = "You are a plain-spoken personal finance writer. " +
	"You explain debt payoff plans in two to four short sentences, quote the exact dollar " +
	"amounts and month counts you are given, and never invent numbers."

// ExplanationService turns a comparison into a short narrative. Without an
// API key, or when the model call fails, it falls back to a template.
type ExplanationService struct {
	apiKey     string
	apiURL     string
	model      string
	log        *logrus.Logger
	httpClient *http.Client
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewExplanationService(apiKey, apiURL, model string, log *logrus.Logger) *ExplanationService {
	if apiURL == "" {
		apiURL = defaultChatCompletionsURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &ExplanationService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		log:    log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enabled reports whether a model is configured.
func (s *ExplanationService) Enabled() bool {
	return s.apiKey != ""
}

// Explain never fails: errors from the model are logged and replaced by
// the template explanation.
func (s *ExplanationService) Explain(ctx context.Context, result domain.ComparisonResult) string {
	if !s.Enabled() {
		return FallbackExplanation(result)
	}

	text, err := s.callModel(ctx, buildExplanationPrompt(result))
	if err != nil {
		s.log.WithError(err).Warn("explanation model call failed, using fallback")
		return FallbackExplanation(result)
	}
	return text
}

func buildExplanationPrompt(result domain.ComparisonResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Snowball (smallest balance first): %s interest, %s paid in total, %d months%s.\n",
		formatUSD(result.Snowball.TotalInterest), formatUSD(result.Snowball.TotalPaid),
		result.Snowball.TotalMonths, incompleteNote(result.Snowball))
	fmt.Fprintf(&b, "Avalanche (highest rate first): %s interest, %s paid in total, %d months%s.\n",
		formatUSD(result.Avalanche.TotalInterest), formatUSD(result.Avalanche.TotalPaid),
		result.Avalanche.TotalMonths, incompleteNote(result.Avalanche))
	fmt.Fprintf(&b, "Interest saved by avalanche: %s.\n", formatUSD(result.InterestSaved))
	if result.MonthsDifference != 0 {
		fmt.Fprintf(&b, "Snowball clears its first debt %d months sooner than avalanche.\n", result.MonthsDifference)
	}
	b.WriteString("Payoff order (snowball): ")
	b.WriteString(payoffNames(result.Snowball.PayoffOrder))
	b.WriteString("\nPayoff order (avalanche): ")
	b.WriteString(payoffNames(result.Avalanche.PayoffOrder))
	b.WriteString("\nRecommendation: ")
	b.WriteString(result.Recommendation)
	b.WriteString("\n\nExplain which method this person should choose and why.")
	return b.String()
}

func incompleteNote(r domain.MethodResult) string {
	if r.Completed {
		return ""
	}
	return fmt.Sprintf(" (not paid off, %s still owed)", formatUSD(r.RemainingBalance))
}

func payoffNames(events []domain.PayoffEvent) string {
	if len(events) == 0 {
		return "none"
	}
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = fmt.Sprintf("%s (month %d)", e.DebtName, e.Month)
	}
	return strings.Join(names, ", ")
}

func (s *ExplanationService) callModel(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: explanationSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 300,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("model API error (status %d): %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// FallbackExplanation builds the narrative from the numbers alone.
func FallbackExplanation(result domain.ComparisonResult) string {
	if len(result.Snowball.PayoffOrder) == 0 && len(result.Avalanche.PayoffOrder) == 0 && result.Snowball.Completed {
		return "There are no debts to pay off."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "With snowball you pay %s in interest over %d months; with avalanche you pay %s over %d months.",
		formatUSD(result.Snowball.TotalInterest), result.Snowball.TotalMonths,
		formatUSD(result.Avalanche.TotalInterest), result.Avalanche.TotalMonths)

	if result.MonthsDifference > 0 {
		fmt.Fprintf(&b, " Snowball clears your first debt %d months sooner.", result.MonthsDifference)
	}
	if !result.Snowball.Completed || !result.Avalanche.Completed {
		fmt.Fprintf(&b, " At this budget the debts are not fully paid off within %d months; raise the extra payment to finish sooner.",
			max(result.Snowball.TotalMonths, result.Avalanche.TotalMonths))
	}
	b.WriteString(" ")
	b.WriteString(result.Recommendation)
	return b.String()
}
