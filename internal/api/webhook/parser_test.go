package webhook

import (
	"encoding/json"
	"testing"
)

func decodeBody(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("invalid test payload: %v", err)
	}
	return body
}

func TestParseInboundShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want InboundMessage
	}{
		{
			name: "ultramsg",
			raw:  `{"event_type":"message_received","data":{"from":"5511988887777@c.us","body":"Hi","pushname":"Tester","fromMe":false}}`,
			want: InboundMessage{Phone: "5511988887777", Content: "Hi", Name: "Tester", FromMe: false},
		},
		{
			name: "zapi message.text",
			raw:  `{"phone":"5511988887777","message":{"text":"Hi"},"pushName":"Tester"}`,
			want: InboundMessage{Phone: "5511988887777", Content: "Hi", Name: "Tester", FromMe: false},
		},
		{
			name: "zapi text.message",
			raw:  `{"phone":"5511988887777","message":{},"text":{"message":"Hi"},"pushName":"Tester"}`,
			want: InboundMessage{Phone: "5511988887777", Content: "Hi", Name: "Tester", FromMe: false},
		},
		{
			name: "generic content",
			raw:  `{"phone":"5511988887777","content":"Hi","name":"Tester"}`,
			want: InboundMessage{Phone: "5511988887777", Content: "Hi", Name: "Tester", FromMe: false},
		},
		{
			name: "generic message string",
			raw:  `{"phone":"5511988887777","message":"Hi"}`,
			want: InboundMessage{Phone: "5511988887777", Content: "Hi", Name: "5511988887777", FromMe: false},
		},
		{
			name: "fromMe carried through",
			raw:  `{"event_type":"message_received","data":{"from":"5511988887777@c.us","body":"Ok","fromMe":true}}`,
			want: InboundMessage{Phone: "5511988887777", Content: "Ok", Name: "5511988887777", FromMe: true},
		},
		{
			name: "non-string body serialized",
			raw:  `{"event_type":"message_received","data":{"from":"5511988887777@c.us","body":{"caption":"pic"}}}`,
			want: InboundMessage{Phone: "5511988887777", Content: `{"caption":"pic"}`, Name: "5511988887777", FromMe: false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := ParseInbound(decodeBody(t, tc.raw))
			if !ok {
				t.Fatal("expected payload to parse")
			}
			if *msg != tc.want {
				t.Errorf("got %+v, want %+v", *msg, tc.want)
			}
		})
	}
}

func TestParseInboundUnknownShape(t *testing.T) {
	payloads := []string{
		`{}`,
		`{"event_type":"message_ack","data":{"from":"5511988887777@c.us","body":"Hi"}}`,
		`{"phone":"5511988887777"}`,
		`{"content":"no phone"}`,
	}
	for _, raw := range payloads {
		if msg, ok := ParseInbound(decodeBody(t, raw)); ok {
			t.Errorf("payload %s should not parse, got %+v", raw, msg)
		}
	}
}

func TestIsConnectionEvent(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`{"type":"status-change","status":"connected"}`, true},
		{`{"status":"CONNECTED"}`, true},
		{`{"type":"status-change","status":"disconnected"}`, false},
		{`{"status":"connected"}`, false},
		{`{"phone":"5511988887777","content":"Hi"}`, false},
	}
	for _, tc := range cases {
		if got := IsConnectionEvent(decodeBody(t, tc.raw)); got != tc.want {
			t.Errorf("IsConnectionEvent(%s) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
