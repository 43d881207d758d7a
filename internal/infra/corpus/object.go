package corpus

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	apperrors "github.com/yanqian/portal-assistant/pkg/errors"
)

// maxObjectBytes caps how much of a corpus object is read.
const maxObjectBytes = 8 << 20

// ObjectSource reads a corpus document from S3-compatible storage (R2, MinIO, S3).
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
}

// NewObjectSource constructs the source. The scheme of endpoint selects TLS.
func NewObjectSource(endpoint, accessKey, secretKey, region, bucket, key string) (*ObjectSource, error) {
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := !strings.HasPrefix(strings.ToLower(endpoint), "http://")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &ObjectSource{client: client, bucket: bucket, key: key}, nil
}

// Load implements Source.
func (s *ObjectSource) Load(ctx context.Context) ([]faq.Entry, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCorpus, "get corpus object", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxObjectBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCorpus, "read corpus object", err)
	}
	if len(data) > maxObjectBytes {
		return nil, apperrors.Wrap(apperrors.CodeCorpus, "corpus object too large", nil)
	}
	return Decode(data)
}

// Describe implements Source.
func (s *ObjectSource) Describe() string {
	return describe("object", s.bucket+"/"+s.key)
}

func sanitizeEndpoint(endpoint string) string {
	trimmed := strings.TrimSpace(endpoint)
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	return strings.TrimRight(trimmed, "/")
}

var _ Source = (*ObjectSource)(nil)
