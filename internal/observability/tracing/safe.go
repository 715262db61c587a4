package tracing

import (
	"errors"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

var (
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-._~+/]+=*`)
)

// SafeAttributes filters attributes down to identifiers and enums that are
// safe to export. Free-text values are redacted.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	safe := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Value.Type() == attribute.STRING {
			safe = append(safe, attribute.String(string(attr.Key), redact(attr.Value.AsString())))
			continue
		}
		safe = append(safe, attr)
	}
	return safe
}

// SafeError returns an error whose message has secrets and addresses redacted.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	msg := redact(err.Error())
	if msg == err.Error() {
		return err
	}
	return errors.New(msg)
}

func redact(value string) string {
	value = emailPattern.ReplaceAllString(value, "[redacted-email]")
	value = bearerPattern.ReplaceAllString(value, "[redacted-token]")
	return strings.TrimSpace(value)
}
