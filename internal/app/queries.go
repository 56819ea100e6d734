package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
)

type QueryService struct {
	repo     domain.TrekRepository
	cache    domain.Cache
	cacheTTL time.Duration
	links    LinkResolver
}

func NewQueryService(r domain.TrekRepository, c domain.Cache, ttl time.Duration, l LinkResolver) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, links: l}
}

// ListTreks returns every trek ordered by id. Never nil.
func (s *QueryService) ListTreks(ctx context.Context) ([]domain.TrekSummaryView, error) {
	// generation is read before the rows; see listGenKey
	gen, cacheable := s.listGeneration(ctx)

	var rows []domain.TrekSummary
	if cacheable && s.cacheGet(ctx, listCacheKey(gen), &rows) {
		return summaryViews(rows, s.links), nil
	}
	rows, err := s.repo.ListTreks(ctx)
	if err != nil {
		return nil, err
	}
	// copy slice to avoid aliasing the repo's backing array
	cp := make([]domain.TrekSummary, len(rows))
	copy(cp, rows)
	if cacheable {
		s.cacheSet(ctx, listCacheKey(gen), cp)
	}
	return summaryViews(cp, s.links), nil
}

// listGeneration reports false when the generation cannot be read; the
// listing then bypasses the cache entirely.
func (s *QueryService) listGeneration(ctx context.Context) (int64, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return 0, false
	}
	var gen int64
	if _, err := s.cache.Get(ctx, listGenKey, &gen); err != nil {
		log.Warn().Err(err).Msg("list generation unreadable")
		return 0, false
	}
	return gen, true
}

// GetTrek returns domain.ErrNotFound for an unknown id and wraps
// domain.ErrCorruptRecord when a composite column does not decode.
func (s *QueryService) GetTrek(ctx context.Context, id int64) (domain.TrekDetailView, error) {
	key := trekCacheKey(id)
	var t domain.Trek
	if s.cacheGet(ctx, key, &t) {
		return detailView(t, s.links), nil
	}
	t, err := s.repo.GetTrek(ctx, id)
	if err != nil {
		return domain.TrekDetailView{}, err
	}
	s.cacheSet(ctx, key, t)
	return detailView(t, s.links), nil
}

// Cache failures degrade to a repository read; they never fail the request.
func (s *QueryService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	return ok
}

func (s *QueryService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
