package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quoteme/internal/domain"
)

// SelectedQuote pairs a winning bid with its provider for summarization.
type SelectedQuote struct {
	Quote    domain.Quote
	Provider domain.Provider
}

// Summarizer produces the human-readable summary attached to a combined
// quote. Failures are transient and retryable; they must never be taken
// for success.
type Summarizer interface {
	Summarize(ctx context.Context, description string, selected []SelectedQuote) (string, error)
}

const summarizerSystem = "You write short, professional summaries of combined " +
	"contractor quotes for homeowners. Two or three sentences, plain language, no markdown."

type AnthropicSummarizer struct {
	client  Client
	timeout time.Duration
	retries int
}

func NewAnthropicSummarizer(client Client, timeout time.Duration, retries int) *AnthropicSummarizer {
	return &AnthropicSummarizer{client: client, timeout: timeout, retries: retries}
}

func (s *AnthropicSummarizer) Summarize(ctx context.Context, description string, selected []SelectedQuote) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n\nSelected bids:\n", description)
	for _, sq := range selected {
		trade := "general"
		if sq.Quote.Trade != nil {
			trade = string(*sq.Quote.Trade)
		}
		fmt.Fprintf(&b, "- %s (%s): $%.2f: %s\n", sq.Provider.Name, trade, sq.Quote.Amount, sq.Quote.Proposal)
	}

	var out string
	err := withRetry(ctx, s.retries, s.timeout, func(ctx context.Context) error {
		text, err := s.client.Complete(ctx, summarizerSystem, b.String(), 512)
		if err != nil {
			return err
		}
		out = strings.TrimSpace(text)
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// StaticSummarizer is the offline fallback: a deterministic one-line
// summary built from the selected bids.
type StaticSummarizer struct{}

func (StaticSummarizer) Summarize(_ context.Context, description string, selected []SelectedQuote) (string, error) {
	var total float64
	names := make([]string, 0, len(selected))
	for _, sq := range selected {
		total += sq.Quote.Amount
		names = append(names, sq.Provider.Name)
	}
	if len(selected) == 0 {
		return fmt.Sprintf("Combined quote for %q: no bids selected yet.", description), nil
	}
	return fmt.Sprintf("Combined quote for %q: %d selected bids from %s, total $%.2f.",
		description, len(selected), strings.Join(names, ", "), total), nil
}
