// Package narrator turns a finished battle into a short tale using the Anthropic Messages API.
package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/battle"
)

const systemPrompt = "You are the chronicler of a fantasy arena. Retell the duel you are given " +
	"as a vivid tale of at most three short paragraphs. Stay faithful to the events and the outcome."

// Narrator requests battle chronicles from a language model.
type Narrator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    *zap.Logger
}

// New creates a Narrator from cfg. Extra options are appended after the ones
// derived from cfg, so they take precedence.
//
// Precondition: cfg.APIKey, cfg.Model must be non-empty and cfg.MaxTokens > 0.
func New(cfg config.NarratorConfig, logger *zap.Logger, opts ...option.RequestOption) *Narrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)
	return &Narrator{
		client:    anthropic.NewClient(reqOpts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}
}

// Chronicle asks the model for a tale of res.
//
// Precondition: res.State must be non-nil.
// Postcondition: Returns non-empty text or a non-nil error.
func (n *Narrator) Chronicle(ctx context.Context, res battle.Result) (string, error) {
	msg, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(n.model),
		MaxTokens: n.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(res))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("requesting chronicle: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("chronicle response contained no text")
	}
	n.logger.Debug("chronicle received",
		zap.String("battle_id", res.ID.String()),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)
	return text, nil
}

// Prompt renders res as the plain-text event list sent to the model.
func Prompt(res battle.Result) string {
	var b strings.Builder
	player := res.State.Player
	enemy := res.State.Enemy
	fmt.Fprintf(&b, "Player: %s the %s (%d life points left)\n",
		player.Entity().Name, player.Archetype(), player.Entity().LifePoints)
	fmt.Fprintf(&b, "Enemy: %s (%d life points left)\n", enemy.Stats.Name, enemy.Stats.LifePoints)
	b.WriteString("Events:\n")
	for _, ev := range res.Log {
		fmt.Fprintf(&b, "%d. %s\n", ev.Turn, ev.Summary())
	}
	fmt.Fprintf(&b, "Outcome: %s after %d turns.\n", res.Outcome, res.Turns)
	return b.String()
}
