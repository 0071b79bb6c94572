package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"github.com/prefeitura-rio/app-pessoas/internal/utils"
	"go.uber.org/zap"
)

// Reference data kinds offered for autocompletion
const (
	ReferenceNationalities = "nationalities"
	ReferenceBirthplaces   = "birthplaces"
	ReferenceGenders       = "genders"
)

// Genders is the fixed list offered for the sexo field
var Genders = []string{"Masculino", "Feminino"}

// ReferenceSource is the backend side of reference lookups
type ReferenceSource interface {
	SearchNationalities(ctx context.Context, query string) ([]string, error)
	SearchBirthplaces(ctx context.Context, query string) ([]string, error)
}

// ReferenceService answers reference lookups, caching backend results
type ReferenceService struct {
	source ReferenceSource
	cache  ReferenceCache
	ttl    time.Duration
	logger *logging.SafeLogger
}

// NewReferenceService creates a reference service; cache may be nil
func NewReferenceService(source ReferenceSource, cache ReferenceCache, ttl time.Duration, logger *logging.SafeLogger) *ReferenceService {
	if logger == nil {
		logger = logging.Logger
	}
	return &ReferenceService{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("reference"),
	}
}

// SearchNationalities returns nationalities matching query
func (s *ReferenceService) SearchNationalities(ctx context.Context, query string) ([]string, error) {
	return s.cached(ctx, ReferenceNationalities, query, s.source.SearchNationalities)
}

// SearchBirthplaces returns birthplaces matching query
func (s *ReferenceService) SearchBirthplaces(ctx context.Context, query string) ([]string, error) {
	return s.cached(ctx, ReferenceBirthplaces, query, s.source.SearchBirthplaces)
}

// SearchGenders filters the fixed gender list, ignoring case
func (s *ReferenceService) SearchGenders(_ context.Context, query string) ([]string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []string{}
	for _, g := range Genders {
		if strings.Contains(strings.ToLower(g), query) {
			out = append(out, g)
		}
	}
	return out, nil
}

// SearchFunc returns the lookup for kind, shaped for the autocomplete input
func (s *ReferenceService) SearchFunc(kind string) (func(context.Context, string) ([]string, error), error) {
	switch kind {
	case ReferenceNationalities:
		return s.SearchNationalities, nil
	case ReferenceBirthplaces:
		return s.SearchBirthplaces, nil
	case ReferenceGenders:
		return s.SearchGenders, nil
	}
	return nil, fmt.Errorf("unknown reference kind %q", kind)
}

// cached answers from the cache or the backend. The query is normalized
// before both, so one cache key always holds one backend answer.
func (s *ReferenceService) cached(ctx context.Context, kind, query string, fetch func(context.Context, string) ([]string, error)) ([]string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []string{}, nil
	}
	key := "pessoas:reference:" + kind + ":" + query

	if s.cache != nil {
		ctx, span := utils.TraceCacheGet(ctx, key)
		values, ok, err := s.cache.Get(ctx, key)
		span.End()
		switch {
		case err != nil:
			s.logger.Warn("reference cache read failed", zap.String("cache_key", key), zap.Error(err))
		case ok:
			observability.CacheHits.WithLabelValues(kind, "hit").Inc()
			s.logger.Debug("reference cache hit", zap.String("cache_key", key))
			return values, nil
		}
		observability.CacheHits.WithLabelValues(kind, "miss").Inc()
	}

	values, err := fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		ctx, span := utils.TraceCacheSet(ctx, key, s.ttl)
		if err := s.cache.Set(ctx, key, values, s.ttl); err != nil {
			s.logger.Warn("reference cache write failed", zap.String("cache_key", key), zap.Error(err))
		}
		span.End()
	}
	return values, nil
}
