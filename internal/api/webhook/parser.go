package webhook

import (
	"encoding/json"

	"github.com/zapdesk/zapdesk/internal/utils"
)

// InboundMessage is the canonical tuple extracted from any supported vendor
// payload shape. Phone is raw at this stage; canonicalization happens in the
// pipeline.
type InboundMessage struct {
	Phone   string
	Content string
	Name    string
	FromMe  bool
}

// shapeParser attempts one vendor payload shape. Parsers are pure and applied
// in priority order; the first match wins.
type shapeParser func(body map[string]any) (*InboundMessage, bool)

var shapeParsers = []shapeParser{
	parseUltraMsgShape,
	parseZAPIShape,
	parseGenericShape,
}

// ParseInbound normalizes a webhook payload into an InboundMessage. The
// second return is false when no known shape matches, which callers treat as
// an ignorable event rather than an error.
func ParseInbound(body map[string]any) (*InboundMessage, bool) {
	for _, parse := range shapeParsers {
		if msg, ok := parse(body); ok {
			return msg, true
		}
	}
	return nil, false
}

// IsConnectionEvent detects the vendor "device connected" notifications that
// should trigger a contact sync instead of message processing.
func IsConnectionEvent(body map[string]any) bool {
	if typ, _ := body["type"].(string); typ == "status-change" {
		if status, _ := body["status"].(string); status == "connected" {
			return true
		}
	}
	status, _ := body["status"].(string)
	return status == "CONNECTED"
}

// UltraMsg nests the message under data with an event_type discriminator.
func parseUltraMsgShape(body map[string]any) (*InboundMessage, bool) {
	eventType, _ := body["event_type"].(string)
	data, ok := body["data"].(map[string]any)
	if !ok || eventType != "message_received" {
		return nil, false
	}

	from, _ := data["from"].(string)
	if from == "" {
		return nil, false
	}
	phone := utils.StripVendorSuffix(from)

	content := stringify(data["body"])
	if content == "" {
		return nil, false
	}

	name := firstString(data, "pushname", "notifyName")
	if name == "" {
		name = phone
	}

	fromMe, _ := data["fromMe"].(bool)
	return &InboundMessage{Phone: phone, Content: content, Name: name, FromMe: fromMe}, true
}

// Z-API sends a flat payload with the text either under message.text or under
// text.message depending on API version.
func parseZAPIShape(body map[string]any) (*InboundMessage, bool) {
	phone, _ := body["phone"].(string)
	if phone == "" {
		return nil, false
	}

	msgVal, hasMessage := body["message"]
	if !hasMessage || msgVal == nil {
		return nil, false
	}

	content := ""
	if msgMap, ok := msgVal.(map[string]any); ok {
		if text, ok := msgMap["text"].(string); ok {
			content = text
		}
	}
	if content == "" {
		if textMap, ok := body["text"].(map[string]any); ok {
			if text, ok := textMap["message"].(string); ok {
				content = text
			}
		}
	}
	if content == "" {
		// Neither message.text nor text.message present: only accept the
		// payload when a text field exists at all, otherwise defer to the
		// generic shape.
		if _, hasText := body["text"]; !hasText {
			return nil, false
		}
		content = stringify(msgVal)
	}
	if content == "" {
		return nil, false
	}

	name := firstString(body, "pushName", "name")
	if name == "" {
		name = phone
	}

	fromMe, _ := body["fromMe"].(bool)
	return &InboundMessage{Phone: phone, Content: content, Name: name, FromMe: fromMe}, true
}

// Generic fallback: flat phone plus content or message.
func parseGenericShape(body map[string]any) (*InboundMessage, bool) {
	phone, _ := body["phone"].(string)
	if phone == "" {
		return nil, false
	}

	content := stringify(body["content"])
	if content == "" {
		content = stringify(body["message"])
	}
	if content == "" {
		return nil, false
	}

	name, _ := body["name"].(string)
	if name == "" {
		name = phone
	}

	fromMe, _ := body["fromMe"].(bool)
	return &InboundMessage{Phone: phone, Content: content, Name: name, FromMe: fromMe}, true
}

// stringify returns string values as-is and serializes any other non-nil
// payload to JSON, so callers always persist a string.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
