package faq

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=mocks/mock_generator.go -package=mocks github.com/yanqian/portal-assistant/internal/domain/faq Generator

import "context"

// Generator produces an answer when the corpus has no confident match.
type Generator interface {
	Generate(ctx context.Context, message, language string) (Generation, error)
}
