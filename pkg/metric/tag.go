package metric

import "strings"

// Tag constants
const (
	TagEnv            = "env"
	TagService        = "service"
	TagPath           = "path"
	TagMethod         = "method"
	TagHttpStatusCode = "http_status_code"

	TagExternalService           = "external_service"
	TagExternalServicePath       = "external_service_path"
	TagExternalServiceMethod     = "external_service_method"
	TagExternalServiceStatusCode = "external_service_status_code"
)

type Tag struct {
	Name  string
	Value string
}

func NewTag(name, value string) Tag {
	return Tag{
		Name:  name,
		Value: value,
	}
}

// BuildTag builds a tag from the given name and value
func BuildTag(tags ...Tag) []string {
	allTags := make([]string, 0)
	for _, tag := range tags {
		allTags = append(allTags, TagAsString(tag.Name, tag.Value))
	}
	return allTags
}

// normalizeTagValue sanitizes tag values to prevent parsing issues
func normalizeTagValue(value string) string {
	// Replace problematic characters that could be misinterpreted by DogStatsD/Telegraf
	// Note: "/" is kept as-is to preserve URL paths
	problematicChars := []string{":", " ", "\\", ",", "|", "@", "#"}
	normalized := value
	for _, char := range problematicChars {
		normalized = strings.ReplaceAll(normalized, char, "_")
	}
	return normalized
}

func TagAsString(name string, value string) string {
	return name + ":" + normalizeTagValue(value)
}

// BuildExternalHTTPServiceLatencyTags builds tags for external service latency metrics
func BuildExternalHTTPServiceLatencyTags(service, path, method string, statusCode int) []string {
	return BuildTag(
		NewTag(TagExternalService, service),
		NewTag(TagExternalServicePath, path),
		NewTag(TagExternalServiceMethod, method),
		NewTag(TagExternalServiceStatusCode, statusCodeAsString(statusCode)),
	)
}

// BuildExternalHTTPServiceCountTags builds tags for external service count metrics
func BuildExternalHTTPServiceCountTags(service, path, method string, statusCode int) []string {
	return BuildTag(
		NewTag(TagExternalService, service),
		NewTag(TagExternalServicePath, path),
		NewTag(TagExternalServiceMethod, method),
		NewTag(TagExternalServiceStatusCode, statusCodeAsString(statusCode)),
	)
}

func statusCodeAsString(code int) string {
	if code == 0 {
		return "unknown"
	}
	digits := [4]byte{}
	i := len(digits)
	for code > 0 && i > 0 {
		i--
		digits[i] = byte('0' + code%10)
		code /= 10
	}
	return string(digits[i:])
}
