package whatsapp

import (
	"context"
	"encoding/json"
)

// ProviderConfigKey is the settings document holding the active gateway
// connection config.
const ProviderConfigKey = "whatsapp_config"

// ProviderConfig is the persisted gateway connection document.
type ProviderConfig struct {
	Provider    string `json:"provider"`
	InstanceID  string `json:"instanceId"`
	Token       string `json:"token"`
	ClientToken string `json:"clientToken,omitempty"`
	APIHost     string `json:"apiHost,omitempty"`
	WebhookURL  string `json:"webhookUrl,omitempty"`
}

// ConnectionStatus is the degraded-never-failing result of a status probe.
type ConnectionStatus struct {
	Connected bool            `json:"connected"`
	Status    string          `json:"status"`
	Raw       json.RawMessage `json:"raw,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// QrKind tags the possible outcomes of a QR pairing request.
type QrKind int

const (
	// QrUnavailable means the vendor could not produce a code right now.
	QrUnavailable QrKind = iota
	// QrImage carries scannable image bytes.
	QrImage
	// QrConnected means the device is already paired and no code exists.
	QrConnected
)

// QrResult is a tagged variant: vendors return raw images, base64 data URLs or
// "already connected" JSON depending on API version, and each adapter resolves
// that ambiguity before it reaches a caller.
type QrResult struct {
	Kind        QrKind
	Image       []byte
	ContentType string
	Message     string
}

// VendorContact is a vendor-native contact record. Different gateways use
// different field names for the same concepts, so all variants are declared.
type VendorContact struct {
	Phone         string `json:"phone"`
	Number        string `json:"number"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Pushname      string `json:"pushname"`
	NotifyName    string `json:"notifyName"`
	ShortName     string `json:"shortName"`
	ProfilePicURL string `json:"profilePicUrl"`
	Image         string `json:"image"`
	ImgURL        string `json:"imgUrl"`
	IsGroup       bool   `json:"isGroup"`
}

// Provider abstracts one WhatsApp gateway vendor. SendMessage is the only
// operation that surfaces transport errors; everything else degrades to a
// sentinel value and logs.
type Provider interface {
	Name() string
	SendMessage(ctx context.Context, phone, message string) (json.RawMessage, error)
	CheckConnection(ctx context.Context) ConnectionStatus
	GetQrCode(ctx context.Context) QrResult
	GetContacts(ctx context.Context) []VendorContact
	Restart(ctx context.Context) bool
	Logout(ctx context.Context) bool
	UpdateWebhook(ctx context.Context, url string) bool
}
