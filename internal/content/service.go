// Package content resolves CMS content through the read-through cache and
// degrades to a built-in dataset when the source is unconfigured or failing.
// Source failures never reach callers.
package content

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/booksphere/internal/cache"
	"github.com/iliyamo/booksphere/internal/model"
)

// Source is the external content provider.
type Source interface {
	// Configured reports whether credentials are complete.  An unconfigured
	// source is never called.
	Configured() bool
	// Entries decodes all entries of contentType into out.
	Entries(ctx context.Context, contentType string, out any) error
}

// Cache keys, one per content type.  They double as Contentstack content
// type uids.
const (
	KeyEvents          = "event"
	KeyBanners         = "banner"
	KeyGlobalConfig    = "global_config"
	KeyTierRules       = "tier_rule"
	KeyRecommendations = "recommendation_rule"
)

// Keys lists every content key the service caches.
var Keys = []string{KeyEvents, KeyBanners, KeyGlobalConfig, KeyTierRules, KeyRecommendations}

type Service struct {
	source Source
	cache  *cache.Cache
	logger *logrus.Logger
}

func NewService(source Source, c *cache.Cache, logger *logrus.Logger) *Service {
	return &Service{source: source, cache: c, logger: logger}
}

// fetch is the read-through step shared by every content type: a fresh hit
// is returned as is; otherwise the source is called (when configured) and a
// successful result is cached.  accept may reject or rewrite a successful
// result; returning false serves fallback without caching anything.
func fetch[T any](ctx context.Context, s *Service, key string, fallback func() T, accept func(T) (T, bool)) T {
	var cached T
	ok, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("key", key).Warn("content cache read failed")
	}
	if ok {
		return cached
	}
	if !s.source.Configured() {
		return fallback()
	}

	var fresh T
	if err := s.source.Entries(ctx, key, &fresh); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("key", key).Warn("content source failed, serving fallback")
		return fallback()
	}
	if accept != nil {
		if fresh, ok = accept(fresh); !ok {
			return fallback()
		}
	}
	if err := s.cache.Put(ctx, key, fresh); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("key", key).Warn("content cache write failed")
	}
	return fresh
}

// Events returns all bookable events.
func (s *Service) Events(ctx context.Context) []model.Event {
	return fetch(ctx, s, KeyEvents, fallbackEvents, nil)
}

// Event looks up a single event by id.
func (s *Service) Event(ctx context.Context, id string) (model.Event, bool) {
	for _, e := range s.Events(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}

func (s *Service) Banners(ctx context.Context) []model.Banner {
	return fetch(ctx, s, KeyBanners, fallbackBanners, nil)
}

// GlobalConfig returns the first global_config entry.  An empty list is
// replaced by the fallback entry, which is then cached.
func (s *Service) GlobalConfig(ctx context.Context) model.GlobalConfig {
	list := fetch(ctx, s, KeyGlobalConfig, func() []model.GlobalConfig {
		return []model.GlobalConfig{fallbackGlobalConfig()}
	}, func(entries []model.GlobalConfig) ([]model.GlobalConfig, bool) {
		if len(entries) == 0 {
			return []model.GlobalConfig{fallbackGlobalConfig()}, true
		}
		return entries[:1], true
	})
	return list[0]
}

// TierRules never yields an empty set: an empty source result is replaced by
// the fallback rules, which are then cached.
func (s *Service) TierRules(ctx context.Context) []model.TierRule {
	return fetch(ctx, s, KeyTierRules, fallbackTierRules, func(rules []model.TierRule) ([]model.TierRule, bool) {
		if len(rules) == 0 {
			return fallbackTierRules(), true
		}
		return rules, true
	})
}

func (s *Service) Recommendations(ctx context.Context) []model.RecommendationRule {
	return fetch(ctx, s, KeyRecommendations, fallbackRecommendations, nil)
}

// Invalidate drops one content type from the cache so the next read goes to
// the source.
func (s *Service) Invalidate(ctx context.Context, key string) error {
	return s.cache.Invalidate(ctx, key)
}

// Purge drops all cached content.
func (s *Service) Purge(ctx context.Context) error {
	return s.cache.Purge(ctx)
}
