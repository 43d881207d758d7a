package corpus

import (
	"context"
	"os"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	apperrors "github.com/yanqian/portal-assistant/pkg/errors"
)

// FileSource reads a corpus document from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource constructs a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load implements Source.
func (s *FileSource) Load(_ context.Context) ([]faq.Entry, error) {
	if s.path == "" {
		return nil, apperrors.Wrap(apperrors.CodeCorpus, "corpus path is empty", nil)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCorpus, "read corpus file", err)
	}
	return Decode(data)
}

// Describe implements Source.
func (s *FileSource) Describe() string {
	return describe("file", s.path)
}

var _ Source = (*FileSource)(nil)
