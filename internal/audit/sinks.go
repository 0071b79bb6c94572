package audit

import (
	"context"
	"encoding/json"

	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/redisclient"
	"go.uber.org/zap"
)

// LogSink writes entries as structured log lines
type LogSink struct {
	logger *logging.SafeLogger
}

// NewLogSink creates a sink over logger
func NewLogSink(logger *logging.SafeLogger) *LogSink {
	if logger == nil {
		logger = logging.Logger
	}
	return &LogSink{logger: logger.Named("audit")}
}

func (s *LogSink) Write(_ context.Context, entries []Entry) error {
	for _, e := range entries {
		s.logger.Info("audit event",
			zap.String("action", e.Action),
			zap.String("resource", e.Resource),
			zap.String("resource_id", e.ResourceID),
			zap.String("user_email", e.UserEmail),
			zap.String("request_id", e.RequestID),
			zap.String("ip_address", e.IPAddress),
			zap.Int("status", e.Status),
			zap.Time("timestamp", e.Timestamp),
			zap.Any("metadata", e.Metadata))
	}
	return nil
}

// DefaultRedisKey is the list audit entries are appended to
const DefaultRedisKey = "pessoas:audit"

// RedisSink appends entries as JSON to a capped Redis list
type RedisSink struct {
	client *redisclient.Client
	key    string
	max    int64
}

// NewRedisSink creates a sink keeping at most max entries under key; max <= 0 keeps all
func NewRedisSink(client *redisclient.Client, key string, max int64) *RedisSink {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSink{client: client, key: key, max: max}
}

func (s *RedisSink) Write(ctx context.Context, entries []Entry) error {
	values := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		values = append(values, data)
	}
	if err := s.client.RPush(ctx, s.key, values...).Err(); err != nil {
		return err
	}
	if s.max > 0 {
		return s.client.LTrim(ctx, s.key, -s.max, -1).Err()
	}
	return nil
}
