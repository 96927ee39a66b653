package logging

import (
	"log/slog"
	"net/url"
	"sort"
	"strings"
)

// RedactedValue replaces sensitive values in emitted records.
const RedactedValue = "[REDACTED]"

// Keys that carry public ledger data and are emitted verbatim.
var publicKeys = map[string]struct{}{
	"service":   {},
	"env":       {},
	"message":   {},
	"severity":  {},
	"timestamp": {},
	"error":     {},
	"component": {},
	"call":      {},
	"platform":  {},
	"campaign":  {},
	"signer":    {},
	"network":   {},
	"route":     {},
	"status":    {},
}

// IsAllowlisted reports whether key is emitted without masking.
func IsAllowlisted(key string) bool {
	_, ok := publicKeys[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// RedactionAllowlist returns the public keys in sorted order.
func RedactionAllowlist() []string {
	keys := make([]string, 0, len(publicKeys))
	for key := range publicKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MaskValue hides a non-empty value. Empty values pass through so operators
// can tell an unset option from a set one.
func MaskValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	return RedactedValue
}

// MaskField returns an attribute whose value is masked unless key is public.
func MaskField(key, value string) slog.Attr {
	if IsAllowlisted(key) {
		return slog.String(key, value)
	}
	return slog.String(key, MaskValue(value))
}

// MaskDSN returns an attribute for a database DSN with its password removed.
// URL DSNs keep scheme, user, host and path. Key/value DSNs keep every pair
// except password. Plain file paths are returned unchanged.
func MaskDSN(key, dsn string) slog.Attr {
	return slog.String(key, maskDSN(dsn))
}

func maskDSN(dsn string) string {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return trimmed
	}
	if strings.Contains(trimmed, "://") {
		parsed, err := url.Parse(trimmed)
		if err != nil {
			return RedactedValue
		}
		if parsed.User != nil {
			if _, ok := parsed.User.Password(); ok {
				parsed.User = url.UserPassword(parsed.User.Username(), RedactedValue)
			}
		}
		query := parsed.Query()
		if query.Has("password") {
			query.Set("password", RedactedValue)
			parsed.RawQuery = query.Encode()
		}
		out, err := url.PathUnescape(parsed.String())
		if err != nil {
			return parsed.String()
		}
		return out
	}
	if !strings.Contains(trimmed, "=") {
		return trimmed
	}
	fields := strings.Fields(trimmed)
	for i, field := range fields {
		name, _, ok := strings.Cut(field, "=")
		if ok && strings.EqualFold(name, "password") {
			fields[i] = name + "=" + RedactedValue
		}
	}
	return strings.Join(fields, " ")
}
