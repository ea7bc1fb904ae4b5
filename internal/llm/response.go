package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The service replies in one of two JSON envelopes: a flat top-level text
// field, or a nested output array of content objects each carrying a text
// field. The first non-empty, successfully JSON-decoded shape wins.

type flatEnvelope struct {
	Text string `json:"text"`
}

type nestedEnvelope struct {
	Output []struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// ExtractContent locates the JSON document payload inside a raw reply.
func ExtractContent(raw []byte) ([]byte, error) {
	var flat flatEnvelope
	if err := json.Unmarshal(raw, &flat); err == nil {
		if doc, ok := decodePayload(flat.Text); ok {
			return doc, nil
		}
	}

	var nested nestedEnvelope
	if err := json.Unmarshal(raw, &nested); err == nil {
		for _, out := range nested.Output {
			for _, c := range out.Content {
				if doc, ok := decodePayload(c.Text); ok {
					return doc, nil
				}
			}
		}
	}

	return nil, fmt.Errorf("no decodable content in response (%d bytes)", len(raw))
}

// decodePayload strips markdown fences the model sometimes adds and checks
// the remainder is real JSON.
func decodePayload(s string) ([]byte, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	if _, ok := v.(map[string]any); !ok {
		return nil, false
	}
	return []byte(s), true
}
