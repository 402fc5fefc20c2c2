// Package ai holds the platform's external text-intelligence calls: the
// trade classifier used at project intake and the combined-quote
// summarizer used at finalization. Both are small interfaces so services
// can be tested with fakes; the production implementation is backed by
// the Anthropic API.
package ai

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultModel = "claude-haiku-4-5-20251001"

// ErrTransient marks a failed external call that the caller may retry.
// It never indicates corruption of already-persisted state.
var ErrTransient = errors.New("transient ai failure")

// Client is the minimal message-completion surface this package needs.
type Client interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int64) (string, error)
}

type sdkClient struct {
	client sdk.Client
	model  string
}

// NewClient builds an Anthropic-backed Client.
func NewClient(apiKey string) Client {
	return &sdkClient{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  defaultModel,
	}
}

func (c *sdkClient) Complete(ctx context.Context, system, prompt string, maxTokens int64) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransient, err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: empty completion", ErrTransient)
}
