package cache

import "strings"

const (
	GlobalKeyPrefix = "topicquiz"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// NormalizeTopic folds a free-text topic into a stable cache identifier:
// surrounding whitespace is dropped, inner runs collapse to one space, and
// the result is lower-cased.
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.Join(strings.Fields(topic), " "))
}

// QuizTopicKey returns the cache key for a generated quiz about topic.
func QuizTopicKey(topic string) string {
	return GenerateCacheKey("quiz", "topic", NormalizeTopic(topic))
}
