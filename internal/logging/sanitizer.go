package logging

import (
	"regexp"
	"strings"
)

// Sanitizer redacts credentials from log output. Settings trees carry RPC
// passwords and macaroons, and field diagnostics log raw values, so both
// free text and values of secret fields are covered.
type Sanitizer struct {
	patterns   []*regexp.Regexp
	secretKeys []string
	redacted   string
}

// NewSanitizer creates a sanitizer with default patterns.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		patterns:   defaultPatterns(),
		secretKeys: defaultSecretKeys(),
		redacted:   "[REDACTED]",
	}
}

func defaultPatterns() []*regexp.Regexp {
	patterns := []string{
		// lnd/btcd/bitcoind RPC credentials in config syntax
		`(?i)(rpcpass(word)?|rpcauth)\s*[=:]\s*\S+`,
		// Hex-encoded macaroons
		`0201036c6e64[0-9a-fA-F]{20,}`,
		// Basic auth in URLs (zmq, fee estimators)
		`://[^/\s:@]+:[^/\s@]+@`,
		// Generic Bearer tokens
		`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`,
		// Generic API keys
		`(?i)api[_-]?key["'\s:=]+[a-zA-Z0-9_-]{20,}`,
		// Generic secrets
		`(?i)secret["'\s:=]+[a-zA-Z0-9_-]{20,}`,
		// Generic passwords
		`(?i)password["'\s:=]+[^\s"']{8,}`,
		// Generic tokens
		`(?i)token["'\s:=]+[a-zA-Z0-9_-]{20,}`,
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// defaultSecretKeys are property names whose values are never logged.
func defaultSecretKeys() []string {
	return []string{"rpcpass", "rpcpassword", "rpcauth", "macaroon", "password", "walletpassword"}
}

// Sanitize redacts sensitive information from a string.
func (s *Sanitizer) Sanitize(input string) string {
	result := input
	for _, pattern := range s.patterns {
		result = pattern.ReplaceAllString(result, s.redacted)
	}
	return result
}

// IsSecretField reports whether a settings key such as "btcd.rpcpass" names
// a credential. Only the property part is compared.
func (s *Sanitizer) IsSecretField(key string) bool {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	key = strings.ToLower(key)
	for _, secret := range s.secretKeys {
		if key == secret {
			return true
		}
	}
	return false
}

// SanitizeMap redacts values in a nested map, such as a settings tree. Values
// stored under secret keys are replaced whatever their content.
func (s *Sanitizer) SanitizeMap(m map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(m))
	for k, v := range m {
		if s.IsSecretField(k) {
			if str, ok := v.(string); ok && str == "" {
				result[k] = v
				continue
			}
			result[k] = s.redacted
			continue
		}
		switch val := v.(type) {
		case string:
			result[k] = s.Sanitize(val)
		case map[string]interface{}:
			result[k] = s.SanitizeMap(val)
		default:
			result[k] = v
		}
	}
	return result
}

// AddPattern adds a custom pattern.
func (s *Sanitizer) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	s.patterns = append(s.patterns, re)
	return nil
}

// AddSecretKey marks another property name as a credential.
func (s *Sanitizer) AddSecretKey(name string) {
	s.secretKeys = append(s.secretKeys, strings.ToLower(name))
}

// SetRedactedPlaceholder sets the placeholder text for redacted content.
func (s *Sanitizer) SetRedactedPlaceholder(placeholder string) {
	s.redacted = placeholder
}
