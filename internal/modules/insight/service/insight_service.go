package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"bjjflow/internal/modules/insight/domain"
	insightout "bjjflow/internal/modules/insight/port/out"
	apperrors "bjjflow/internal/platform/errors"
	"bjjflow/internal/platform/logging"
)

type Options struct {
	Language        string
	Timeout         time.Duration
	MaxPromptTokens int
}

type InsightService struct {
	source    insightout.SessionSource
	generator insightout.Generator
	counter   insightout.TokenCounter
	opts      Options
	logger    *slog.Logger
}

// NewInsightService builds the service. A nil generator means no API key is
// configured; requests then fail with the apology text.
func NewInsightService(source insightout.SessionSource, generator insightout.Generator, counter insightout.TokenCounter, opts Options, logger *slog.Logger) *InsightService {
	return &InsightService{source: source, generator: generator, counter: counter, opts: opts, logger: logger}
}

// Request runs one single-shot generation over the most recently stored
// sessions. Cancelling ctx resolves to OutcomeCancelled.
func (s *InsightService) Request(ctx context.Context) domain.Result {
	logger := logging.Service(ctx, s.logger, "insight", "request")

	digests, err := s.source.Recent(ctx, domain.RecentLimit)
	if err != nil {
		if ctx.Err() != nil {
			return cancelled(ctx.Err())
		}
		logger.Error("load recent sessions", "error", err)
		return failed(fmt.Errorf("load recent sessions: %w", err), 0)
	}
	if len(digests) == 0 {
		return domain.Result{Outcome: domain.OutcomeEmpty, Text: domain.EmptyJournalText}
	}
	if s.generator == nil {
		return failed(apperrors.ErrInsightUnavailable, len(digests))
	}

	prompt, tokens, err := s.fitPrompt(digests)
	if err != nil {
		return failed(err, len(digests))
	}

	callCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	started := time.Now()
	text, err := s.generator.Generate(callCtx, domain.SystemInstruction(s.opts.Language), prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("%w: empty response", apperrors.ErrInsightUnavailable)
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			logger.Info("insight cancelled", "elapsed", time.Since(started))
			return cancelled(ctx.Err())
		}
		logger.Warn("insight generation failed", "error", err, "elapsed", time.Since(started))
		return failed(err, len(digests))
	}
	logger.Info("insight generated", "sessions", len(digests), "prompt_tokens", tokens, "elapsed", time.Since(started))
	return domain.Result{Outcome: domain.OutcomeGenerated, Text: strings.TrimSpace(text), Sessions: len(digests), PromptTokens: tokens}
}

// fitPrompt shortens notes, longest first, until the prompt fits the token
// budget. Other fields are never trimmed.
func (s *InsightService) fitPrompt(digests []domain.SessionDigest) (string, int, error) {
	working := make([]domain.SessionDigest, len(digests))
	copy(working, digests)

	for {
		prompt, err := domain.RenderPrompt(working)
		if err != nil {
			return "", 0, err
		}
		tokens := s.count(prompt)
		if s.opts.MaxPromptTokens <= 0 || tokens <= s.opts.MaxPromptTokens {
			return prompt, tokens, nil
		}
		longest := -1
		for idx, d := range working {
			if longest < 0 || utf8.RuneCountInString(d.Notes) > utf8.RuneCountInString(working[longest].Notes) {
				longest = idx
			}
		}
		if longest < 0 || working[longest].Notes == "" {
			return prompt, tokens, nil
		}
		working[longest].Notes = halve(working[longest].Notes)
	}
}

func (s *InsightService) count(text string) int {
	if s.counter == nil {
		return (utf8.RuneCountInString(text) + 3) / 4
	}
	return s.counter.Count(text)
}

// halve keeps the first half of the runes, marking the cut.
func halve(notes string) string {
	runes := []rune(notes)
	if len(runes) <= 8 {
		return ""
	}
	return strings.TrimSpace(string(runes[:len(runes)/2])) + "…"
}

func failed(err error, sessions int) domain.Result {
	return domain.Result{Outcome: domain.OutcomeFailed, Text: domain.UnavailableText, Err: err, Sessions: sessions}
}

func cancelled(err error) domain.Result {
	return domain.Result{Outcome: domain.OutcomeCancelled, Err: err}
}
