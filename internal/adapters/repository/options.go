package repository

// DefaultKeyPrefix namespaces every cached feed key.
const DefaultKeyPrefix = "courtside:feed:"

// Option applies a configuration option to the RedisStore.
type Option func(*RedisStore)

// WithKeyPrefix overrides DefaultKeyPrefix. Empty prefixes are ignored.
func WithKeyPrefix(prefix string) Option {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}
