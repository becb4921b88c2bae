package logging

import (
	"encoding/json"
	"reflect"
	"unicode/utf8"
)

const (
	maxMessageLength = 500
	maxContextBytes  = 1024
	maxSliceItems    = 5

	truncationMarker = "..."
)

// optionalFields are dropped first when a context exceeds its size budget.
var optionalFields = []string{"duration", "retryAttempt"}

// truncateMessage caps a message at 500 bytes, ending in "..." when cut. The
// cut lands on a rune boundary so the result is always valid UTF-8.
func truncateMessage(message string) string {
	if len(message) <= maxMessageLength {
		return message
	}
	cut := maxMessageLength - len(truncationMarker)
	for cut > 0 && !utf8.RuneStart(message[cut]) {
		cut--
	}
	return message[:cut] + truncationMarker
}

// truncateContext shrinks a context to fit the 1 KB serialization budget.
// Strategies are applied in order until the context fits: drop optional
// fields, cap slices at five elements, and finally discard field contents in
// favor of a marker object carrying the pre-truncation size.
func truncateContext(ctx Context) Context {
	serialized, err := json.Marshal(ctx)
	if err != nil {
		return Context{
			"error":     "failed to serialize context",
			"errorType": err.Error(),
		}
	}
	if len(serialized) <= maxContextBytes {
		return ctx
	}

	essential := make(Context, len(ctx))
	for key, value := range ctx {
		if isOptionalField(key) {
			continue
		}
		essential[key] = value
	}
	if fits(essential) {
		return essential
	}

	capped := make(Context, len(essential))
	for key, value := range essential {
		capped[key] = capSlice(value)
	}
	if fits(capped) {
		return capped
	}

	return Context{
		"_truncated":    true,
		"_originalSize": len(serialized),
	}
}

func isOptionalField(key string) bool {
	for _, field := range optionalFields {
		if key == field {
			return true
		}
	}
	return false
}

func fits(ctx Context) bool {
	serialized, err := json.Marshal(ctx)
	return err == nil && len(serialized) <= maxContextBytes
}

func capSlice(value interface{}) interface{} {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice || rv.Len() <= maxSliceItems {
		return value
	}
	return rv.Slice(0, maxSliceItems).Interface()
}
