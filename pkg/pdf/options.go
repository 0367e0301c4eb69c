package pdf

import (
	"fmt"
)

// openConfig carries the recognized open-time settings. Unknown keys and
// mistyped values fail during option application, before any document
// parsing begins.
type openConfig struct {
	password          string
	ignoreXRefStreams bool
	suppressWarnings  bool
	attemptRecovery   bool
	useMmap           bool
}

func defaultOpenConfig() openConfig {
	return openConfig{
		suppressWarnings: true,
		attemptRecovery:  true,
	}
}

// OpenOption configures a single Open call.
type OpenOption func(*openConfig) error

// WithPassword supplies the user or owner password for an encrypted
// document.
func WithPassword(password string) OpenOption {
	return func(c *openConfig) error {
		c.password = password
		return nil
	}
}

// WithIgnoreXRefStreams asks the engine to fall back to conventional
// cross-reference tables where possible.
func WithIgnoreXRefStreams(v bool) OpenOption {
	return func(c *openConfig) error {
		c.ignoreXRefStreams = v
		return nil
	}
}

// WithSuppressWarnings controls whether non-fatal warnings are echoed to
// stderr (false) or only accumulated for GetWarnings (true, the default).
func WithSuppressWarnings(v bool) OpenOption {
	return func(c *openConfig) error {
		c.suppressWarnings = v
		return nil
	}
}

// WithAttemptRecovery controls whether the engine tries to recover from
// malformed document structure (true, the default).
func WithAttemptRecovery(v bool) OpenOption {
	return func(c *openConfig) error {
		c.attemptRecovery = v
		return nil
	}
}

// WithMemoryMap reads path sources through a memory map instead of the
// engine's own file access.
func WithMemoryMap(v bool) OpenOption {
	return func(c *openConfig) error {
		c.useMmap = v
		return nil
	}
}

// WithOption sets a named open option from a dynamically typed value.
// Unknown keys and wrong value types fail eagerly with an *ArgumentError.
func WithOption(key string, value interface{}) OpenOption {
	return func(c *openConfig) error {
		switch key {
		case "password":
			s, ok := value.(string)
			if !ok {
				return optionTypeError(key)
			}
			c.password = s
		case "ignore_xref_streams":
			b, ok := value.(bool)
			if !ok {
				return optionTypeError(key)
			}
			c.ignoreXRefStreams = b
		case "suppress_warnings":
			b, ok := value.(bool)
			if !ok {
				return optionTypeError(key)
			}
			c.suppressWarnings = b
		case "attempt_recovery":
			b, ok := value.(bool)
			if !ok {
				return optionTypeError(key)
			}
			c.attemptRecovery = b
		default:
			return &ArgumentError{Msg: fmt.Sprintf("%s: unknown option", key)}
		}
		return nil
	}
}

func optionTypeError(key string) error {
	return &ArgumentError{Msg: key + ": unsupported argument type"}
}
