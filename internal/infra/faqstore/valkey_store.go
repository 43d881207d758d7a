package faqstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	apperrors "github.com/yanqian/portal-assistant/pkg/errors"
)

const (
	defaultPrefix   = "assistant"
	defaultTopLimit = 10
)

// valkeyCommands is the set of round trips the store issues. Missing keys
// surface as valkey.Nil, like the client's own replies.
type valkeyCommands interface {
	get(ctx context.Context, key string) ([]byte, error)
	set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// incrementWithDisplay runs ZINCRBY and SET NX in one pipeline and
	// returns each command's error.
	incrementWithDisplay(ctx context.Context, zkey, member, displayKey, display string) (incrErr, displayErr error)
	topScores(ctx context.Context, zkey string, limit int) ([]valkey.ZScore, error)
	// mget returns one value per key, "" for missing keys.
	mget(ctx context.Context, keys []string) ([]string, error)
}

// ValkeyStore keeps generated answers and popular-question counters in a
// Valkey or Redis compatible server so replicas share them.
//
// Layout under prefix:
//
//	<prefix>:answer:<language>:<normalized message>  JSON AnswerRecord with TTL
//	<prefix>:popular                                 sorted set of normalized messages
//	<prefix>:display:<normalized message>            first raw wording seen
type ValkeyStore struct {
	cmds   valkeyCommands
	prefix string
}

// NewValkeyStore constructs the store. An empty prefix uses "assistant".
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	return newValkeyStore(clientCommands{client: client}, prefix)
}

func newValkeyStore(cmds valkeyCommands, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &ValkeyStore{cmds: cmds, prefix: prefix}
}

// GetAnswer implements faq.Store.
func (s *ValkeyStore) GetAnswer(ctx context.Context, key string) (faq.AnswerRecord, bool, error) {
	if key == "" {
		return faq.AnswerRecord{}, false, nil
	}
	payload, err := s.cmds.get(ctx, s.answerKey(key))
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return faq.AnswerRecord{}, false, nil
		}
		return faq.AnswerRecord{}, false, apperrors.Wrap(apperrors.CodeStore, "get cached answer", err)
	}
	var record faq.AnswerRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return faq.AnswerRecord{}, false, apperrors.Wrap(apperrors.CodeStore, "decode cached answer", err)
	}
	return record, true, nil
}

// SaveAnswer implements faq.Store. A non-positive ttl stores without expiry;
// positive ttls are rounded up to one second.
func (s *ValkeyStore) SaveAnswer(ctx context.Context, record faq.AnswerRecord, ttl time.Duration) error {
	if record.Key == "" {
		return nil
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStore, "encode cached answer", err)
	}
	if ttl > 0 {
		ttl = max(ttl, time.Second)
	}
	if err := s.cmds.set(ctx, s.answerKey(record.Key), payload, ttl); err != nil {
		return apperrors.Wrap(apperrors.CodeStore, "save cached answer", err)
	}
	return nil
}

// IncrementQuery bumps the counter and remembers the first display wording
// in a single round trip.
func (s *ValkeyStore) IncrementQuery(ctx context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	if display == "" {
		display = canonical
	}
	incrErr, displayErr := s.cmds.incrementWithDisplay(ctx, s.popularKey(), canonical, s.displayKey(canonical), display)
	if incrErr != nil {
		return apperrors.Wrap(apperrors.CodeStore, "increment popular question", incrErr)
	}
	// SET NX replies nil when the display already exists.
	if displayErr != nil && !valkey.IsValkeyNil(displayErr) {
		return apperrors.Wrap(apperrors.CodeStore, "record display wording", displayErr)
	}
	return nil
}

// TopQueries implements faq.Store. Display wordings that cannot be read fall
// back to the normalized message.
func (s *ValkeyStore) TopQueries(ctx context.Context, limit int) ([]faq.TrendingQuery, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	scores, err := s.cmds.topScores(ctx, s.popularKey(), limit)
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []faq.TrendingQuery{}, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeStore, "read popular questions", err)
	}
	if len(scores) == 0 {
		return []faq.TrendingQuery{}, nil
	}

	keys := make([]string, len(scores))
	for i, z := range scores {
		keys[i] = s.displayKey(z.Member)
	}
	displays, err := s.cmds.mget(ctx, keys)
	if err != nil {
		displays = nil
	}

	out := make([]faq.TrendingQuery, 0, len(scores))
	for i, z := range scores {
		query := z.Member
		if i < len(displays) && displays[i] != "" {
			query = displays[i]
		}
		out = append(out, faq.TrendingQuery{Query: query, Count: int64(z.Score)})
	}
	return out, nil
}

func (s *ValkeyStore) answerKey(key string) string {
	return s.prefix + ":answer:" + key
}

func (s *ValkeyStore) popularKey() string {
	return s.prefix + ":popular"
}

func (s *ValkeyStore) displayKey(canonical string) string {
	return s.prefix + ":display:" + canonical
}

// clientCommands issues valkeyCommands through a valkey.Client.
type clientCommands struct {
	client valkey.Client
}

func (c clientCommands) get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
}

func (c clientCommands) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	set := c.client.B().Set().Key(key).Value(valkey.BinaryString(value))
	if ttl > 0 {
		return c.client.Do(ctx, set.Ex(ttl).Build()).Error()
	}
	return c.client.Do(ctx, set.Build()).Error()
}

func (c clientCommands) incrementWithDisplay(ctx context.Context, zkey, member, displayKey, display string) (incrErr, displayErr error) {
	results := c.client.DoMulti(ctx,
		c.client.B().Zincrby().Key(zkey).Increment(1).Member(member).Build(),
		c.client.B().Set().Key(displayKey).Value(display).Nx().Build(),
	)
	return results[0].Error(), results[1].Error()
}

func (c clientCommands) topScores(ctx context.Context, zkey string, limit int) ([]valkey.ZScore, error) {
	cmd := c.client.B().Zrevrange().Key(zkey).Start(0).Stop(int64(limit - 1)).Withscores().Build()
	return c.client.Do(ctx, cmd).AsZScores()
}

func (c clientCommands) mget(ctx context.Context, keys []string) ([]string, error) {
	replies, err := c.client.Do(ctx, c.client.B().Mget().Key(keys...).Build()).ToArray()
	if err != nil {
		return nil, err
	}
	values := make([]string, len(replies))
	for i, reply := range replies {
		if v, err := reply.ToString(); err == nil {
			values[i] = v
		}
	}
	return values, nil
}

var _ faq.Store = (*ValkeyStore)(nil)
