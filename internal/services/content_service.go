package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/getmentor/contentbridge/config"
	"github.com/getmentor/contentbridge/internal/cache"
	"github.com/getmentor/contentbridge/internal/revalidation"
	"github.com/getmentor/contentbridge/pkg/directus"
	apperrors "github.com/getmentor/contentbridge/pkg/errors"
	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/getmentor/contentbridge/pkg/metrics"
	"go.uber.org/zap"
)

// ContentService serves CMS reads through the in-memory content cache.
// With fallback enabled, upstream failures degrade to empty results the way
// the site's build expects, instead of failing the page.
type ContentService struct {
	source   ContentSource
	cache    *cache.ContentCache // nil when caching is disabled
	fallback bool
}

func NewContentService(source ContentSource, contentCache *cache.ContentCache, cfg *config.Config) *ContentService {
	if cfg.Cache.DisableContentCache {
		contentCache = nil
	}
	return &ContentService{
		source:   source,
		cache:    contentCache,
		fallback: cfg.Directus.FallbackOnError,
	}
}

func (s *ContentService) ListItems(ctx context.Context, collection string, q directus.Query) ([]directus.Item, error) {
	key, err := cacheKey("items", collection, "", q)
	if err != nil {
		return nil, err
	}
	tags := contentTags(collection, "")
	if cached, ok := s.lookup(key); ok {
		return cached.([]directus.Item), nil
	}
	gen := s.generation(tags)

	items, err := s.source.FetchCollection(ctx, collection, q)
	if err != nil {
		if s.shouldFallback(err) {
			s.logFallback(ctx, "fetchCollection", collection, err)
			return []directus.Item{}, nil
		}
		return nil, err
	}

	s.store(key, items, gen, tags)
	return items, nil
}

// GetItem returns nil when the item does not exist
func (s *ContentService) GetItem(ctx context.Context, collection, id string, q directus.Query) (directus.Item, error) {
	if id == "" {
		return nil, apperrors.InvalidInputError("id", "must not be empty")
	}

	key, err := cacheKey("item", collection, id, q)
	if err != nil {
		return nil, err
	}
	tags := contentTags(collection, id)
	if cached, ok := s.lookup(key); ok {
		return cached.(directus.Item), nil
	}
	gen := s.generation(tags)

	item, err := s.source.FetchItem(ctx, collection, id, q)
	if err != nil {
		if re, ok := apperrors.AsRemote(err); ok && re.StatusCode == 404 {
			return nil, nil
		}
		if s.shouldFallback(err) {
			s.logFallback(ctx, "fetchItem", collection, err)
			return nil, nil
		}
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	s.store(key, item, gen, tags)
	return item, nil
}

func (s *ContentService) StaticPaths(ctx context.Context, collection, field string) (*directus.StaticPaths, error) {
	if field == "" {
		field = "slug"
	}
	key := fmt.Sprintf("paths:%s:%s", collection, field)
	tags := contentTags(collection, "")
	if cached, ok := s.lookup(key); ok {
		return cached.(*directus.StaticPaths), nil
	}
	gen := s.generation(tags)

	paths, err := s.source.StaticPaths(ctx, collection, field)
	if err != nil {
		if s.shouldFallback(err) {
			s.logFallback(ctx, "staticPaths", collection, err)
			return &directus.StaticPaths{Paths: []directus.StaticPath{}, Fallback: directus.FallbackBlocking}, nil
		}
		return nil, err
	}

	s.store(key, paths, gen, tags)
	return paths, nil
}

func (s *ContentService) AssetURL(assetID string, t directus.Transform) string {
	return directus.AssetURL(s.source.BaseURL(), assetID, t)
}

func (s *ContentService) ResponsiveImages(assetID string, widths []int) *directus.ResponsiveImage {
	return directus.ResponsiveImages(s.source.BaseURL(), assetID, widths)
}

func (s *ContentService) ImageProps(assetID string, t directus.Transform, alt string) *directus.Image {
	return directus.ImageProps(s.source.BaseURL(), assetID, t, alt)
}

func (s *ContentService) BlurDataURL(assetID string) string {
	return directus.BlurDataURL(s.source.BaseURL(), assetID)
}

func (s *ContentService) lookup(key string) (interface{}, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *ContentService) generation(tags []string) uint64 {
	if s.cache == nil {
		return 0
	}
	return s.cache.Generation(tags...)
}

// store drops value when a webhook invalidated its tags while it was being fetched
func (s *ContentService) store(key string, value interface{}, gen uint64, tags []string) {
	if s.cache == nil {
		return
	}
	s.cache.SetIfUnchanged(key, value, gen, tags...)
}

// shouldFallback excludes caller mistakes and cancellations, which must surface
func (s *ContentService) shouldFallback(err error) bool {
	if !s.fallback {
		return false
	}
	if errors.Is(err, apperrors.ErrInvalidInput) {
		return false
	}
	return !errors.Is(err, context.Canceled)
}

func (s *ContentService) logFallback(ctx context.Context, operation, collection string, err error) {
	metrics.ContentFallbacks.WithLabelValues(collection).Inc()
	logger.WarnContext(ctx, "Content read failed, serving fallback",
		zap.String("operation", operation),
		zap.String("collection", collection),
		zap.Error(err))
}

func cacheKey(kind, collection, id string, q directus.Query) (string, error) {
	values, err := q.Values()
	if err != nil {
		return "", apperrors.InvalidInputError("query", err.Error())
	}
	return fmt.Sprintf("%s:%s:%s?%s", kind, collection, id, values.Encode()), nil
}

// contentTags are the tags a cached read is indexed by. They overlap with the
// revalidation tags so one webhook clears both the site and this cache.
func contentTags(collection, id string) []string {
	tags := []string{"directus", CollectionTag(collection)}
	if id != "" {
		tags = append(tags, CollectionTag(collection)+"-"+id)
	}
	return append(tags, revalidation.BaseTags(collection)...)
}

// CollectionTag is the cache tag shared by every read of collection
func CollectionTag(collection string) string {
	return "directus-" + collection
}
