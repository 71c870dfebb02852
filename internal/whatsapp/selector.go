package whatsapp

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/config"
	"github.com/zapdesk/zapdesk/internal/utils"
)

// SettingsReader is the slice of the settings store the selector needs.
type SettingsReader interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
}

// Selector resolves the active gateway provider from the persisted connection
// config, caching the constructed adapter until the config content changes.
// Safe for concurrent use.
type Selector struct {
	settings SettingsReader
	cfg      *config.Config

	mu       sync.Mutex
	cached   Provider
	lastHash string
}

func NewSelector(settings SettingsReader, cfg *config.Config) *Selector {
	return &Selector{settings: settings, cfg: cfg}
}

// Active returns the provider for the current configuration. A settings-store
// failure or a missing document falls back to env-var credentials rather than
// propagating.
func (s *Selector) Active(ctx context.Context) Provider {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, found, err := s.settings.GetSetting(ctx, ProviderConfigKey)
	if err != nil {
		utils.Zlog.Error("Failed to load provider config from settings", zap.Error(err))
	}

	if err == nil && found {
		// The raw document doubles as the content hash: any change in the
		// stored JSON invalidates the cached adapter.
		if s.cached != nil && s.lastHash == value {
			return s.cached
		}

		var pc ProviderConfig
		if err := json.Unmarshal([]byte(value), &pc); err != nil {
			utils.Zlog.Error("Malformed provider config document", zap.Error(err))
		} else {
			if p := buildProvider(pc); p != nil {
				utils.Zlog.Info("Switching WhatsApp provider", zap.String("provider", pc.Provider))
				s.cached = p
				s.lastHash = value
				return p
			}
			utils.Zlog.Warn("Unknown WhatsApp provider, falling back to env",
				zap.String("provider", pc.Provider))
		}
	}

	if s.cached != nil {
		return s.cached
	}

	p := s.envFallback()
	s.cached = p
	s.lastHash = ""
	return p
}

// Refresh drops the cached adapter so the next Active call rebuilds it from
// the current configuration.
func (s *Selector) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.lastHash = ""
}

func buildProvider(pc ProviderConfig) Provider {
	switch pc.Provider {
	case "zapi", "official":
		return NewZAPIProvider(pc)
	case "ultramsg":
		return NewUltraMsgProvider(pc)
	default:
		return nil
	}
}

func (s *Selector) envFallback() Provider {
	providerName := s.cfg.WhatsAppProvider
	if providerName == "" {
		providerName = "zapi"
	}
	utils.Zlog.Warn("Falling back to env provider config", zap.String("provider", providerName))

	if providerName == "ultramsg" {
		return NewUltraMsgProvider(ProviderConfig{
			InstanceID: s.cfg.UltraMsgInstance,
			Token:      s.cfg.UltraMsgToken,
		})
	}
	return NewZAPIProvider(ProviderConfig{
		InstanceID:  s.cfg.ZAPIInstanceID,
		Token:       s.cfg.ZAPIToken,
		ClientToken: s.cfg.ZAPIClientToken,
		APIHost:     s.cfg.WhatsAppAPIHost,
	})
}
