package config

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

var (
	// Cache instances for different data types
	SummaryCache  *cache.Cache
	RegistryCache *cache.Cache
	SitemapCache  *cache.Cache
)

const (
	// Summaries change only on admin writes; registries are browsed heavily.
	summaryCacheDuration  = 10 * time.Minute
	registryCacheDuration = 5 * time.Minute
	sitemapCacheDuration  = 24 * time.Hour

	summaryCleanupInterval  = 30 * time.Minute
	registryCleanupInterval = 15 * time.Minute
	sitemapCleanupInterval  = 48 * time.Hour
)

func InitCache() {
	SummaryCache = cache.New(summaryCacheDuration, summaryCleanupInterval)
	RegistryCache = cache.New(registryCacheDuration, registryCleanupInterval)
	SitemapCache = cache.New(sitemapCacheDuration, sitemapCleanupInterval)
}

func ClearAllCaches() {
	SummaryCache.Flush()
	RegistryCache.Flush()
	SitemapCache.Flush()
}

func GetCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
