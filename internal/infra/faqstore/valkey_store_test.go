package faqstore

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	apperrors "github.com/yanqian/portal-assistant/pkg/errors"
)

// fakeValkey answers valkeyCommands from maps. err fails every call.
type fakeValkey struct {
	values     map[string][]byte
	ttls       map[string]time.Duration
	zsets      map[string]map[string]float64
	err        error
	mgetErr    error
	displayErr error
}

func newFakeValkey() *fakeValkey {
	return &fakeValkey{
		values: make(map[string][]byte),
		ttls:   make(map[string]time.Duration),
		zsets:  make(map[string]map[string]float64),
	}
}

func (f *fakeValkey) get(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[key]
	if !ok {
		return nil, valkey.Nil
	}
	return v, nil
}

func (f *fakeValkey) set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeValkey) incrementWithDisplay(_ context.Context, zkey, member, displayKey, display string) (incrErr, displayErr error) {
	if f.err != nil {
		return f.err, f.err
	}
	if f.zsets[zkey] == nil {
		f.zsets[zkey] = make(map[string]float64)
	}
	f.zsets[zkey][member]++
	if f.displayErr != nil {
		return nil, f.displayErr
	}
	if _, exists := f.values[displayKey]; exists {
		return nil, valkey.Nil
	}
	f.values[displayKey] = []byte(display)
	return nil, nil
}

func (f *fakeValkey) topScores(_ context.Context, zkey string, limit int) ([]valkey.ZScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	scores := make([]valkey.ZScore, 0, len(f.zsets[zkey]))
	for member, score := range f.zsets[zkey] {
		scores = append(scores, valkey.ZScore{Member: member, Score: score})
	}
	slices.SortFunc(scores, func(a, b valkey.ZScore) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(b.Member, a.Member)
	})
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

func (f *fakeValkey) mget(_ context.Context, keys []string) ([]string, error) {
	if f.mgetErr != nil {
		return nil, f.mgetErr
	}
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = string(f.values[key])
	}
	return out, nil
}

func TestValkeyStoreAnswerRoundTrip(t *testing.T) {
	fake := newFakeValkey()
	store := newValkeyStore(fake, "portal")
	ctx := context.Background()

	_, ok, err := store.GetAnswer(ctx, "en:missing")
	require.NoError(t, err)
	require.False(t, ok)

	record := faq.AnswerRecord{
		Key:       "he:מתי הבחינה",
		Language:  "he",
		Question:  "מתי הבחינה?",
		Answer:    "בינואר",
		Model:     "gpt-4o-mini",
		CreatedAt: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveAnswer(ctx, record, time.Hour))
	require.Equal(t, time.Hour, fake.ttls["portal:answer:he:מתי הבחינה"])

	got, ok, err := store.GetAnswer(ctx, record.Key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record, got)
}

func TestValkeyStoreSaveAnswerTTL(t *testing.T) {
	fake := newFakeValkey()
	store := newValkeyStore(fake, "")
	ctx := context.Background()

	require.NoError(t, store.SaveAnswer(ctx, faq.AnswerRecord{Key: "en:short"}, time.Millisecond))
	require.NoError(t, store.SaveAnswer(ctx, faq.AnswerRecord{Key: "en:forever"}, 0))
	require.NoError(t, store.SaveAnswer(ctx, faq.AnswerRecord{}, time.Hour))

	require.Equal(t, time.Second, fake.ttls["assistant:answer:en:short"])
	require.Zero(t, fake.ttls["assistant:answer:en:forever"])
	require.Len(t, fake.values, 2)
}

func TestValkeyStoreGetAnswerCorruptPayload(t *testing.T) {
	fake := newFakeValkey()
	fake.values["assistant:answer:en:broken"] = []byte("{not json")

	_, ok, err := newValkeyStore(fake, "").GetAnswer(context.Background(), "en:broken")
	require.False(t, ok)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStore))
}

func TestValkeyStoreTopQueries(t *testing.T) {
	fake := newFakeValkey()
	store := newValkeyStore(fake, "")
	ctx := context.Background()

	require.NoError(t, store.IncrementQuery(ctx, "exam schedule", "Exam schedule?"))
	require.NoError(t, store.IncrementQuery(ctx, "exam schedule", "exam   schedule"))
	require.NoError(t, store.IncrementQuery(ctx, "exam schedule", ""))
	require.NoError(t, store.IncrementQuery(ctx, "course registration", ""))
	require.NoError(t, store.IncrementQuery(ctx, "", "ignored"))

	top, err := store.TopQueries(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []faq.TrendingQuery{
		{Query: "Exam schedule?", Count: 3},
		{Query: "course registration", Count: 1},
	}, top)

	top, err = store.TopQueries(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []faq.TrendingQuery{{Query: "Exam schedule?", Count: 3}}, top)
}

func TestValkeyStoreTopQueriesEmpty(t *testing.T) {
	top, err := newValkeyStore(newFakeValkey(), "").TopQueries(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, top)
	require.Empty(t, top)
}

func TestValkeyStoreTopQueriesFallsBackToCanonical(t *testing.T) {
	fake := newFakeValkey()
	store := newValkeyStore(fake, "")
	ctx := context.Background()
	require.NoError(t, store.IncrementQuery(ctx, "exam schedule", "Exam schedule?"))

	fake.mgetErr = errors.New("connection reset")
	top, err := store.TopQueries(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, []faq.TrendingQuery{{Query: "exam schedule", Count: 1}}, top)
}

func TestValkeyStoreFailuresAreStoreErrors(t *testing.T) {
	fake := newFakeValkey()
	fake.err = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	store := newValkeyStore(fake, "")
	ctx := context.Background()

	top, err := store.TopQueries(ctx, 5)
	require.Nil(t, top)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStore))
	require.ErrorIs(t, err, fake.err)

	_, ok, err := store.GetAnswer(ctx, "en:exam schedule")
	require.False(t, ok)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStore))

	err = store.SaveAnswer(ctx, faq.AnswerRecord{Key: "en:exam schedule"}, time.Minute)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStore))

	err = store.IncrementQuery(ctx, "exam schedule", "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeStore))
}

func TestValkeyStoreDisplayWriteFailure(t *testing.T) {
	fake := newFakeValkey()
	fake.displayErr = errors.New("READONLY You can't write against a read only replica")

	err := newValkeyStore(fake, "").IncrementQuery(context.Background(), "exam schedule", "Exam schedule?")
	require.True(t, apperrors.IsCode(err, apperrors.CodeStore))
	require.Equal(t, 1.0, fake.zsets["assistant:popular"]["exam schedule"])
}

func TestValkeyStoreKeys(t *testing.T) {
	store := NewValkeyStore(nil, "")
	require.Equal(t, "assistant:answer:en:exam schedule", store.answerKey("en:exam schedule"))
	require.Equal(t, "assistant:popular", store.popularKey())
	require.Equal(t, "portal:display:exam schedule", NewValkeyStore(nil, "portal").displayKey("exam schedule"))
}
