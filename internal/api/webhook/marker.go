package webhook

import (
	"encoding/json"
	"regexp"
	"strings"
)

// markerPattern matches the hidden booking tag the assistant appends to its
// reply. The JSON blob may contain newlines.
var markerPattern = regexp.MustCompile(`(?s)\|\|AGENDAMENTO:\s*(\{.*?\})\s*\|\|`)

// AppointmentData is the parsed payload of a booking marker.
type AppointmentData struct {
	Client  string `json:"client"`
	Service string `json:"service"`
	Date    string `json:"date"`
}

// ExtractAppointment scans reply text for a booking marker. On a well-formed
// marker it returns the text with the marker stripped and the parsed data. A
// malformed marker (or none) leaves the text verbatim; the error is non-nil
// only when a marker was present but its JSON did not parse.
func ExtractAppointment(text string) (string, *AppointmentData, error) {
	match := markerPattern.FindStringSubmatch(text)
	if match == nil {
		return text, nil, nil
	}

	var data AppointmentData
	if err := json.Unmarshal([]byte(match[1]), &data); err != nil {
		return text, nil, err
	}

	cleaned := strings.TrimSpace(strings.Replace(text, match[0], "", 1))
	return cleaned, &data, nil
}
