package narrator_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/battle"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/state"
	"github.com/cory-johannsen/duel/internal/narrator"
)

func sampleResult(t *testing.T) battle.Result {
	t.Helper()
	r, err := state.DefaultRoster()
	require.NoError(t, err)
	gs, err := r.NewGameState("fighter")
	require.NoError(t, err)
	gs.Enemy.Stats.LifePoints = 0
	return battle.Result{
		ID:      uuid.New(),
		Outcome: battle.PlayerWon,
		Turns:   1,
		State:   gs,
		Log: []battle.TurnEvent{{
			Turn: 1, Action: battle.ActionAttack, Actor: "Hero", Target: "Ork",
			Result: combat.AttackResult{Kind: combat.TargetDefeated, Amount: 44, Attacker: "Hero", Target: "Ork"},
		}},
	}
}

func newNarrator(url string) *narrator.Narrator {
	cfg := config.NarratorConfig{Enabled: true, Model: "test-model", MaxTokens: 200, APIKey: "test-key", BaseURL: url + "/"}
	return narrator.New(cfg, nil, option.WithMaxRetries(0))
}

func TestPrompt(t *testing.T) {
	p := narrator.Prompt(sampleResult(t))
	assert.Contains(t, p, "Player: Hero the Fighter (200 life points left)")
	assert.Contains(t, p, "Enemy: Ork (0 life points left)")
	assert.Contains(t, p, "1. Hero hits Ork for 44 damage and defeats them.")
	assert.Contains(t, p, "Outcome: player won after 1 turns.")
}

func TestChronicle_SendsPromptAndReturnsText(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_test", "type": "message", "role": "assistant", "model": "test-model",
			"content": [{"type": "text", "text": "  Hero struck once, and Ork fell.  "}],
			"stop_reason": "end_turn", "stop_sequence": null,
			"usage": {"input_tokens": 10, "output_tokens": 8}
		}`)
	}))
	defer srv.Close()

	text, err := newNarrator(srv.URL).Chronicle(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Equal(t, "Hero struck once, and Ork fell.", text)

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 200, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	require.NotEmpty(t, got.Messages[0].Content)
	assert.Contains(t, got.Messages[0].Content[0].Text, "Outcome: player won")
}

func TestChronicle_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)
	}))
	defer srv.Close()

	_, err := newNarrator(srv.URL).Chronicle(context.Background(), sampleResult(t))
	assert.Error(t, err)
}

func TestChronicle_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_test", "type": "message", "role": "assistant", "model": "test-model",
			"content": [], "stop_reason": "end_turn", "stop_sequence": null,
			"usage": {"input_tokens": 10, "output_tokens": 0}
		}`)
	}))
	defer srv.Close()

	_, err := newNarrator(srv.URL).Chronicle(context.Background(), sampleResult(t))
	assert.ErrorContains(t, err, "no text")
}
