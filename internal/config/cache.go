package config

import "time"

// CacheConfig defines settings for the message listing cache.  When Enabled
// is false or no Redis client is available, listings always hit the database.
// Prefix namespaces keys so several deployments can share one Redis.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  getenv("CACHE_PREFIX", "contactdesk"),
	}
}
