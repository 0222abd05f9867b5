package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitlog/internal/domain"
	"fitlog/internal/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultStaticTip is what StaticTipGenerator says when no tip is configured.
	DefaultStaticTip = "Stay consistent: small daily steps add up. Keep moving, drink enough water and get enough sleep."

	coachSystemPrompt = "You are a motivating fitness coach."

	coachPromptTemplate = "Here is a user's body data:\n\n%s\n\n" +
		"Give a short fitness tip for reducing body fat. " +
		"Take the history into account and motivate the user. " +
		"Leave out any greeting, the answer is shown inside a web app."

	DefaultTipModel       = "gpt-4o-mini"
	DefaultTipMaxTokens   = 300
	DefaultTipTemperature = float32(0.8)
	DefaultTipTimeout     = 15 * time.Second
)

// TipGenerator produces a short text tip from a user's ordered history.
// Implementations never fail; they fall back to fixed texts instead.
type TipGenerator interface {
	Generate(ctx context.Context, userID string, history []domain.Measurement) string
}

var errEmptyCompletion = errors.New("empty completion")

var (
	_ TipGenerator = (*StaticTipGenerator)(nil)
	_ TipGenerator = (*CoachTipGenerator)(nil)
)

// StaticTipGenerator answers every non-empty history with the same tip. It
// never talks to an external service.
type StaticTipGenerator struct {
	tip     string
	metrics *metrics.Manager
}

// NewStaticTipGenerator creates a StaticTipGenerator; an empty tip selects
// DefaultStaticTip.
func NewStaticTipGenerator(tip string, m *metrics.Manager) *StaticTipGenerator {
	if strings.TrimSpace(tip) == "" {
		tip = DefaultStaticTip
	}
	return &StaticTipGenerator{tip: tip, metrics: m}
}

// Generate implements TipGenerator.
func (g *StaticTipGenerator) Generate(_ context.Context, _ string, history []domain.Measurement) string {
	if len(history) == 0 {
		g.metrics.TipGenerated(metrics.TipOutcomeNoData)
		return domain.NoDataTip
	}
	g.metrics.TipGenerated(metrics.TipOutcomeStatic)
	return g.tip
}

// CoachOptions tunes the request sent by CoachTipGenerator.
type CoachOptions struct {
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

func (o CoachOptions) withDefaults() CoachOptions {
	if o.Model == "" {
		o.Model = DefaultTipModel
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultTipMaxTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = DefaultTipTemperature
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTipTimeout
	}
	return o
}

// CoachTipGenerator asks an external text generator for a tip and falls back
// to domain.FallbackTip on any failure. It does not retry.
type CoachTipGenerator struct {
	completer domain.Completer
	opts      CoachOptions
	metrics   *metrics.Manager
}

// NewCoachTipGenerator creates a CoachTipGenerator backed by completer.
func NewCoachTipGenerator(completer domain.Completer, opts CoachOptions, m *metrics.Manager) *CoachTipGenerator {
	return &CoachTipGenerator{completer: completer, opts: opts.withDefaults(), metrics: m}
}

// Generate implements TipGenerator.
func (g *CoachTipGenerator) Generate(ctx context.Context, userID string, history []domain.Measurement) string {
	if len(history) == 0 {
		g.metrics.TipGenerated(metrics.TipOutcomeNoData)
		return domain.NoDataTip
	}

	req := domain.CompletionRequest{
		Model:       g.opts.Model,
		System:      coachSystemPrompt,
		Prompt:      CoachPrompt(history),
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	begin := time.Now()
	text, err := g.completer.Complete(ctx, req)
	if g.metrics != nil {
		g.metrics.HistogramTipDuration.Observe(time.Since(begin).Seconds())
	}

	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = errEmptyCompletion
	}
	if err != nil {
		log.WithError(err).WithField("user", userID).Error("tip generation failed")
		g.metrics.TipGenerated(metrics.TipOutcomeFallback)
		return domain.FallbackTip
	}

	g.metrics.TipGenerated(metrics.TipOutcomeSuccess)
	return text
}

// CoachPrompt embeds the formatted history into the coach instructions.
func CoachPrompt(history []domain.Measurement) string {
	return fmt.Sprintf(coachPromptTemplate, domain.FormatHistory(history))
}
