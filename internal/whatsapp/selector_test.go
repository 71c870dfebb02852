package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/zapdesk/zapdesk/internal/config"
)

type fakeSettings struct {
	value string
	found bool
	err   error
	calls int
}

func (f *fakeSettings) GetSetting(_ context.Context, key string) (string, bool, error) {
	if key != ProviderConfigKey {
		return "", false, nil
	}
	f.calls++
	return f.value, f.found, f.err
}

func TestSelectorBuildsFromSettings(t *testing.T) {
	settings := &fakeSettings{
		value: `{"provider":"ultramsg","instanceId":"instance1","token":"tok1"}`,
		found: true,
	}
	sel := NewSelector(settings, &config.Config{})

	p := sel.Active(context.Background())
	if p.Name() != "ultramsg" {
		t.Fatalf("expected ultramsg provider, got %s", p.Name())
	}
}

func TestSelectorCachesUntilConfigChanges(t *testing.T) {
	settings := &fakeSettings{
		value: `{"provider":"zapi","instanceId":"inst1","token":"tok1"}`,
		found: true,
	}
	sel := NewSelector(settings, &config.Config{})

	first := sel.Active(context.Background())
	second := sel.Active(context.Background())
	if first != second {
		t.Error("same config document must return the cached adapter")
	}

	settings.value = `{"provider":"ultramsg","instanceId":"instance1","token":"tok2"}`
	third := sel.Active(context.Background())
	if third == first {
		t.Error("changed config document must rebuild the adapter")
	}
	if third.Name() != "ultramsg" {
		t.Errorf("rebuilt adapter has wrong vendor: %s", third.Name())
	}
}

func TestSelectorEnvFallback(t *testing.T) {
	cases := []struct {
		name     string
		settings *fakeSettings
	}{
		{"missing document", &fakeSettings{found: false}},
		{"store error", &fakeSettings{err: errors.New("db down")}},
		{"malformed document", &fakeSettings{value: `{not json`, found: true}},
		{"unknown vendor", &fakeSettings{value: `{"provider":"carrier-pigeon"}`, found: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sel := NewSelector(tc.settings, &config.Config{
				WhatsAppProvider: "ultramsg",
				UltraMsgInstance: "env-instance",
				UltraMsgToken:    "env-token",
			})
			p := sel.Active(context.Background())
			if p.Name() != "ultramsg" {
				t.Errorf("expected env fallback provider, got %s", p.Name())
			}
		})
	}
}

func TestSelectorEnvFallbackDefaultsToZAPI(t *testing.T) {
	sel := NewSelector(&fakeSettings{}, &config.Config{})
	p := sel.Active(context.Background())
	if p.Name() != "zapi" {
		t.Errorf("default fallback must be zapi, got %s", p.Name())
	}
}

func TestSelectorRefresh(t *testing.T) {
	settings := &fakeSettings{
		value: `{"provider":"zapi","instanceId":"inst1","token":"tok1"}`,
		found: true,
	}
	sel := NewSelector(settings, &config.Config{})

	first := sel.Active(context.Background())
	sel.Refresh()
	second := sel.Active(context.Background())
	if first == second {
		t.Error("Refresh must drop the cached adapter")
	}
	if second.Name() != "zapi" {
		t.Errorf("rebuilt adapter wrong: %s", second.Name())
	}
}
