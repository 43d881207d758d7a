package faqstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
)

type cachedAnswer struct {
	record    faq.AnswerRecord
	expiresAt time.Time
}

// defaultPopularLimit caps how many distinct questions are counted.
const defaultPopularLimit = 10000

type popularQuestion struct {
	count   int64
	display string
}

// MemoryStore keeps cached answers and popular-question counters in process
// memory. It is the default when no Valkey server is configured. Once
// popularLimit questions are tracked, a new one replaces the least asked.
type MemoryStore struct {
	mu           sync.RWMutex
	answers      map[string]cachedAnswer
	popular      map[string]*popularQuestion
	popularLimit int
	nowFn        func() time.Time
}

// NewMemoryStore constructs an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		answers:      make(map[string]cachedAnswer),
		popular:      make(map[string]*popularQuestion),
		popularLimit: defaultPopularLimit,
		nowFn:        time.Now,
	}
}

// GetAnswer implements faq.Store. Expired entries are evicted on read.
func (s *MemoryStore) GetAnswer(_ context.Context, key string) (faq.AnswerRecord, bool, error) {
	if key == "" {
		return faq.AnswerRecord{}, false, nil
	}
	s.mu.RLock()
	cached, ok := s.answers[key]
	s.mu.RUnlock()
	if !ok {
		return faq.AnswerRecord{}, false, nil
	}
	if s.expired(cached) {
		s.mu.Lock()
		// A SaveAnswer may have replaced the entry since the read.
		if current, ok := s.answers[key]; ok && s.expired(current) {
			delete(s.answers, key)
		}
		s.mu.Unlock()
		return faq.AnswerRecord{}, false, nil
	}
	return cached.record, true, nil
}

func (s *MemoryStore) expired(cached cachedAnswer) bool {
	return !cached.expiresAt.IsZero() && !cached.expiresAt.After(s.nowFn())
}

// SaveAnswer implements faq.Store. A non-positive ttl never expires.
func (s *MemoryStore) SaveAnswer(_ context.Context, record faq.AnswerRecord, ttl time.Duration) error {
	if record.Key == "" {
		return nil
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.nowFn().Add(ttl)
	}
	s.mu.Lock()
	s.answers[record.Key] = cachedAnswer{record: record, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

// IncrementQuery implements faq.Store. The first display wording sticks.
func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.popular[canonical]
	if !ok {
		if s.popularLimit > 0 && len(s.popular) >= s.popularLimit {
			s.evictLeastPopular()
		}
		if display == "" {
			display = canonical
		}
		q = &popularQuestion{display: display}
		s.popular[canonical] = q
	}
	q.count++
	return nil
}

// evictLeastPopular drops the lowest count, the alphabetically last on ties.
func (s *MemoryStore) evictLeastPopular() {
	var (
		victim string
		lowest *popularQuestion
	)
	for canonical, q := range s.popular {
		if lowest == nil || q.count < lowest.count || (q.count == lowest.count && canonical > victim) {
			victim, lowest = canonical, q
		}
	}
	delete(s.popular, victim)
}

// TopQueries returns up to limit questions by descending count, ties broken
// alphabetically. A non-positive limit returns everything.
func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]faq.TrendingQuery, error) {
	s.mu.RLock()
	items := make([]faq.TrendingQuery, 0, len(s.popular))
	for _, q := range s.popular {
		items = append(items, faq.TrendingQuery{Query: q.display, Count: q.count})
	}
	s.mu.RUnlock()

	slices.SortFunc(items, func(a, b faq.TrendingQuery) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Query, b.Query)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ faq.Store = (*MemoryStore)(nil)
