package redis

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// DefaultHistoryKey is the list holding the shared descriptor history.
const DefaultHistoryKey = "bde:history"

// HistoryStore keeps the descriptor history in one Redis list, most recent
// first.  It satisfies history.Store.
type HistoryStore struct {
	client *Client
	key    string
	logger logging.Logger
}

// NewHistoryStore returns a store writing to key, or DefaultHistoryKey when
// key is blank.
func NewHistoryStore(client *Client, key string, log logging.Logger) *HistoryStore {
	if strings.TrimSpace(key) == "" {
		key = DefaultHistoryKey
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &HistoryStore{client: client, key: key, logger: log}
}

// Key returns the list key.
func (s *HistoryStore) Key() string { return s.key }

// Load returns the stored entries.  A missing key is an empty history.
func (s *HistoryStore) Load(ctx context.Context) ([]string, error) {
	entries, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "failed to load history").WithDetail(s.key)
	}
	s.logger.Debug("history loaded", logging.String("key", s.key), logging.Int("entries", len(entries)))
	return entries, nil
}

// Save replaces the stored list with entries in one transaction.
func (s *HistoryStore) Save(ctx context.Context, entries []string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(entries) > 0 {
			values := make([]interface{}, len(entries))
			for i, e := range entries {
				values[i] = e
			}
			pipe.RPush(ctx, s.key, values...)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorage, "failed to save history").WithDetail(s.key)
	}
	return nil
}

//Personal.AI order the ending
