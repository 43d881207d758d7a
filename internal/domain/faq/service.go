package faq

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/portal-assistant/pkg/errors"
	"github.com/yanqian/portal-assistant/pkg/metrics"
)

const emptyMessageText = "Please provide a message"

var apologies = map[string]string{
	LanguageEnglish: "Sorry, I encountered an error. Please try again later.",
	LanguageHebrew:  "מצטער, נתקלתי בשגיאה. אנא נסה שוב מאוחר יותר.",
}

// Service exposes the assistant's message dispatch.
type Service interface {
	ProcessMessage(ctx context.Context, req Request) Response
	Popular(ctx context.Context) ([]TrendingQuery, error)
	CorpusSize() int
}

type service struct {
	cfg       Config
	corpus    *Corpus
	matcher   *Matcher
	generator Generator
	store     Store
	metrics   *metrics.Assistant
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the assistant domain.
func NewService(cfg Config, corpus *Corpus, generator Generator, store Store, recorder *metrics.Assistant, logger *slog.Logger) Service {
	cfg = cfg.withDefaults()
	return &service{
		cfg:       cfg,
		corpus:    corpus,
		matcher:   NewMatcher(corpus, cfg.MatchThreshold),
		generator: generator,
		store:     store,
		metrics:   recorder,
		logger:    logger.With("component", "faq.service"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ProcessMessage answers from the corpus when confident and falls back to
// the generator otherwise. Every failure resolves to a response envelope.
func (s *service) ProcessMessage(ctx context.Context, req Request) Response {
	if strings.TrimSpace(req.Message) == "" {
		return s.finish(ctx, Response{Text: emptyMessageText, Source: SourceSystem})
	}

	language := strings.ToLower(strings.TrimSpace(req.Language))
	if language == "" {
		language = DetectLanguage(req.Message)
	}

	s.trackQuery(ctx, req.Message)

	if candidate, ok := s.matcher.Match(req.Message, language); ok && candidate.Confidence >= s.cfg.ConfidenceThreshold {
		confidence := candidate.Confidence
		s.logger.Debug("faq match", "faq_id", candidate.FAQID, "confidence", confidence, "language", language)
		return s.finish(ctx, Response{
			Text:       candidate.Response,
			Source:     SourceFAQ,
			Confidence: &confidence,
			Language:   language,
			FAQID:      candidate.FAQID,
			Success:    true,
		})
	}

	return s.finish(ctx, s.fallback(ctx, req.Message, language))
}

// Popular returns the most frequently asked questions.
func (s *service) Popular(ctx context.Context) ([]TrendingQuery, error) {
	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		s.logger.Error("popular questions unavailable", "error", err)
		if apperrors.IsCode(err, apperrors.CodeStore) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.CodeStore, "failed to load popular questions", err)
	}
	return recs, nil
}

func (s *service) CorpusSize() int {
	return s.corpus.Len()
}

func (s *service) fallback(ctx context.Context, message, language string) Response {
	key := answerKey(message, language)
	if s.cfg.CacheAnswers {
		cached, ok, err := s.store.GetAnswer(ctx, key)
		if err != nil {
			s.logger.Warn("answer cache lookup failed", "error", err)
		}
		if ok {
			return Response{Text: cached.Answer, Source: SourceOpenAI, Model: cached.Model, Language: language, Success: true}
		}
	}

	gen, err := s.generate(ctx, message, language)
	if err != nil {
		s.logger.Error("generation failed", "language", language, "error", err)
		return Response{Text: apology(language), Source: SourceSystem, Language: language}
	}

	if s.cfg.CacheAnswers {
		record := AnswerRecord{
			Key:       key,
			Language:  language,
			Question:  message,
			Answer:    gen.Text,
			Model:     gen.Model,
			CreatedAt: s.now(),
		}
		if err := s.store.SaveAnswer(ctx, record, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("answer cache save failed", "error", err)
		}
	}

	return Response{Text: gen.Text, Source: SourceOpenAI, Model: gen.Model, Language: language, Success: true}
}

func (s *service) generate(ctx context.Context, message, language string) (gen Generation, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
		s.metrics.RecordGeneration(ctx, time.Since(start), gen.Usage, err)
	}()

	gen, err = s.generator.Generate(ctx, message, language)
	if err != nil {
		return Generation{}, err
	}
	if strings.TrimSpace(gen.Text) == "" {
		return Generation{}, apperrors.Wrap(apperrors.CodeLLM, "generator returned empty text", nil)
	}
	return gen, nil
}

func (s *service) trackQuery(ctx context.Context, message string) {
	canonical := Normalize(message)
	if canonical == "" {
		return
	}
	if err := s.store.IncrementQuery(ctx, canonical, strings.TrimSpace(message)); err != nil {
		s.logger.Warn("popular question increment failed", "error", err)
	}
}

func (s *service) finish(ctx context.Context, resp Response) Response {
	s.metrics.RecordResponse(ctx, string(resp.Source), resp.Language, resp.Success)
	return resp
}

func answerKey(message, language string) string {
	return language + ":" + Normalize(message)
}

func apology(language string) string {
	if text, ok := apologies[language]; ok {
		return text
	}
	return apologies[LanguageEnglish]
}
