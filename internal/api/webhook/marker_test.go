package webhook

import "testing"

func TestExtractAppointment(t *testing.T) {
	text := "Perfeito, agendado! ||AGENDAMENTO: {\"client\":\"Maria\",\"service\":\"Corte\",\"date\":\"2026-09-02 14:00\"}||"

	cleaned, data, err := ExtractAppointment(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data == nil {
		t.Fatal("expected appointment data")
	}
	if data.Client != "Maria" || data.Service != "Corte" || data.Date != "2026-09-02 14:00" {
		t.Errorf("unexpected data: %+v", data)
	}
	if cleaned != "Perfeito, agendado!" {
		t.Errorf("marker not stripped, got %q", cleaned)
	}
}

func TestExtractAppointmentMultilineJSON(t *testing.T) {
	text := "Confirmado. ||AGENDAMENTO: {\n  \"client\": \"João\",\n  \"service\": \"Consulta\",\n  \"date\": \"amanhã 10h\"\n}||"

	cleaned, data, err := ExtractAppointment(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data == nil || data.Client != "João" {
		t.Fatalf("multiline marker not parsed, got %+v", data)
	}
	if cleaned != "Confirmado." {
		t.Errorf("marker not stripped, got %q", cleaned)
	}
}

func TestExtractAppointmentNoMarker(t *testing.T) {
	text := "Olá! Como posso ajudar?"
	cleaned, data, err := ExtractAppointment(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Errorf("expected no data, got %+v", data)
	}
	if cleaned != text {
		t.Errorf("text should be untouched, got %q", cleaned)
	}
}

func TestExtractAppointmentMalformedJSON(t *testing.T) {
	text := "Agendado ||AGENDAMENTO: {\"client\": \"Maria\", }||"
	cleaned, data, err := ExtractAppointment(text)
	if err == nil {
		t.Error("expected a parse error for malformed marker JSON")
	}
	if data != nil {
		t.Errorf("expected no data, got %+v", data)
	}
	if cleaned != text {
		t.Errorf("malformed marker must leave text verbatim, got %q", cleaned)
	}
}
