package ai

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"quoteme/internal/domain"
)

// TradeClassifier deconstructs a free-text project description into the
// set of required trades, restricted to the platform vocabulary.
type TradeClassifier interface {
	Classify(ctx context.Context, description string) ([]domain.Trade, error)
}

const classifierSystem = "You are a contractor-dispatch assistant. " +
	"Given a home improvement project description, list every trade needed to complete it. " +
	"Answer with a comma-separated list of trade names only, no prose."

// AnthropicClassifier asks the model for a comma-separated trade list and
// keeps only labels from the fixed vocabulary.
type AnthropicClassifier struct {
	client  Client
	timeout time.Duration
	retries int
	logger  *zap.Logger
}

func NewAnthropicClassifier(client Client, timeout time.Duration, retries int, logger *zap.Logger) *AnthropicClassifier {
	return &AnthropicClassifier{client: client, timeout: timeout, retries: retries, logger: logger}
}

func (c *AnthropicClassifier) Classify(ctx context.Context, description string) ([]domain.Trade, error) {
	prompt := "Allowed trades: " + joinTrades(domain.AllTrades) + "\n\nProject description:\n" + description

	var raw string
	err := withRetry(ctx, c.retries, c.timeout, func(ctx context.Context) error {
		out, err := c.client.Complete(ctx, classifierSystem, prompt, 256)
		if err != nil {
			return err
		}
		raw = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	trades := parseTradeList(raw)
	if len(trades) == 0 {
		c.logger.Warn("classifier returned no known trades", zap.String("raw", raw))
		return nil, ErrTransient
	}
	return trades, nil
}

// KeywordClassifier is the offline fallback used when no API key is
// configured. It scans the description for trade names and common task
// words.
type KeywordClassifier struct{}

var keywordHints = map[string]domain.Trade{
	"pipe":      domain.TradePlumber,
	"leak":      domain.TradePlumber,
	"sink":      domain.TradePlumber,
	"wiring":    domain.TradeElectrician,
	"outlet":    domain.TradeElectrician,
	"light":     domain.TradeElectrician,
	"paint":     domain.TradePainter,
	"wall":      domain.TradePainter,
	"roof":      domain.TradeRoofer,
	"floor":     domain.TradeFlooringSpecialist,
	"tile":      domain.TradeFlooringSpecialist,
	"garden":    domain.TradeLandscaper,
	"lawn":      domain.TradeLandscaper,
	"heating":   domain.TradeHVAC,
	"cooling":   domain.TradeHVAC,
	"air condi": domain.TradeHVAC,
	"cabinet":   domain.TradeCarpenter,
	"deck":      domain.TradeCarpenter,
	"brick":     domain.TradeMason,
	"clean":     domain.TradeCleaner,
	"move":      domain.TradeMover,
	"weld":      domain.TradeWelder,
}

func (KeywordClassifier) Classify(_ context.Context, description string) ([]domain.Trade, error) {
	lower := strings.ToLower(description)

	var trades []domain.Trade
	for _, t := range domain.AllTrades {
		if strings.Contains(lower, strings.ToLower(string(t))) {
			trades = appendTrade(trades, t)
		}
	}
	for hint, t := range keywordHints {
		if strings.Contains(lower, hint) {
			trades = appendTrade(trades, t)
		}
	}

	if len(trades) == 0 {
		trades = []domain.Trade{domain.DefaultTrade}
	}
	return trades, nil
}

func parseTradeList(raw string) []domain.Trade {
	var trades []domain.Trade
	for _, part := range strings.Split(raw, ",") {
		label := domain.Trade(strings.TrimSpace(part))
		if label.IsValid() {
			trades = appendTrade(trades, label)
		}
	}
	return trades
}

func appendTrade(set []domain.Trade, t domain.Trade) []domain.Trade {
	if domain.ContainsTrade(set, t) {
		return set
	}
	return append(set, t)
}

func joinTrades(ts []domain.Trade) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
