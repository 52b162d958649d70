// Package webhook talks to the external conversational webhook and reduces
// its loosely shaped replies to a single line of bot text.
package webhook

import (
	"errors"

	"github.com/tidwall/gjson"
)

// FallbackReply is used when a well-formed reply carries no usable text.
const FallbackReply = "He recibido tu mensaje, pero no puedo generar una respuesta adecuada en este momento."

// ReplyKeys are probed in this order. The webhook's response shape is not
// standardized, so the order is part of the contract with it.
var ReplyKeys = []string{"output", "reply", "message", "response", "text"}

var ErrMalformedReply = errors.New("webhook: reply is not valid JSON")

// Normalize extracts the bot text from a raw webhook reply. It also reports
// which key supplied the text, or "" when the fallback was used.
func Normalize(raw []byte) (text, key string, err error) {
	if !gjson.ValidBytes(raw) {
		return "", "", ErrMalformedReply
	}
	doc := gjson.ParseBytes(raw)
	if doc.IsObject() {
		// A repeated key keeps its last value.
		fields := make(map[string]gjson.Result)
		doc.ForEach(func(k, v gjson.Result) bool {
			fields[k.String()] = v
			return true
		})
		for _, k := range ReplyKeys {
			v := fields[k]
			if !truthy(v) {
				continue
			}
			if v.Type == gjson.String {
				return v.Str, k, nil
			}
			return v.Raw, k, nil
		}
	}
	if doc.Type == gjson.String {
		return doc.Str, "", nil
	}
	return FallbackReply, "", nil
}

// truthy treats empty strings, zero, false and null as absent.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
