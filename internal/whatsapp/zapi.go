package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/utils"
)

const defaultZAPIHost = "https://api.z-api.io"

// ZAPIProvider talks to the Z-API gateway. The hosted service embeds the
// instance id and token in the URL path; self-hosted forks use a shorter path
// and expect the token in an Access-Token header instead.
type ZAPIProvider struct {
	instanceID  string
	token       string
	clientToken string
	baseURL     string
	selfHosted  bool
	client      *http.Client
}

func NewZAPIProvider(cfg ProviderConfig) *ZAPIProvider {
	host := cfg.APIHost
	if host == "" {
		host = defaultZAPIHost
	}

	p := &ZAPIProvider{
		instanceID:  cfg.InstanceID,
		token:       cfg.Token,
		clientToken: cfg.ClientToken,
		client:      &http.Client{Timeout: 30 * time.Second},
	}

	if strings.Contains(host, "z-api.io") {
		p.baseURL = fmt.Sprintf("%s/instances/%s/token/%s", host, cfg.InstanceID, cfg.Token)
	} else {
		p.baseURL = fmt.Sprintf("%s/api/instances/%s", host, cfg.InstanceID)
		p.selfHosted = true
	}

	return p
}

func (p *ZAPIProvider) Name() string { return "zapi" }

func (p *ZAPIProvider) setHeaders(req *http.Request, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.clientToken != "" {
		req.Header.Set("Client-Token", p.clientToken)
	}
	if p.selfHosted {
		req.Header.Set("Access-Token", p.token)
	}
}

func (p *ZAPIProvider) SendMessage(ctx context.Context, phone, message string) (json.RawMessage, error) {
	endpoint := "/send-text"
	if p.selfHosted {
		endpoint = "/messages/chat"
	}

	body, err := json.Marshal(map[string]string{"phone": phone, "message": message})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create send request: %w", err)
	}
	p.setHeaders(req, true)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("z-api send failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("z-api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return json.RawMessage(respBody), nil
}

func (p *ZAPIProvider) CheckConnection(ctx context.Context) ConnectionStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/status", nil)
	if err != nil {
		return ConnectionStatus{Connected: false, Error: err.Error()}
	}
	p.setHeaders(req, false)

	resp, err := p.client.Do(req)
	if err != nil {
		return ConnectionStatus{Connected: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var data struct {
		Connected bool   `json:"connected"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return ConnectionStatus{Connected: false, Error: err.Error()}
	}

	connected := data.Connected || data.Status == "connected"
	status := "disconnected"
	if connected {
		status = "connected"
	}
	return ConnectionStatus{Connected: connected, Status: status, Raw: raw}
}

func (p *ZAPIProvider) GetQrCode(ctx context.Context) QrResult {
	if status := p.CheckConnection(ctx); status.Connected {
		return QrResult{Kind: QrConnected, Message: "Device already connected"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/qr-code/image", nil)
	if err != nil {
		return QrResult{Kind: QrUnavailable}
	}
	p.setHeaders(req, false)

	resp, err := p.client.Do(req)
	if err != nil {
		utils.Zlog.Error("Z-API QR fetch failed", zap.Error(err))
		return QrResult{Kind: QrUnavailable}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.Zlog.Warn("Z-API QR code error", zap.Int("status", resp.StatusCode))
		return QrResult{Kind: QrUnavailable}
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil || len(img) == 0 {
		return QrResult{Kind: QrUnavailable}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return QrResult{Kind: QrImage, Image: img, ContentType: contentType}
}

func (p *ZAPIProvider) GetContacts(ctx context.Context) []VendorContact {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/contacts", nil)
	if err != nil {
		return []VendorContact{}
	}
	p.setHeaders(req, false)

	resp, err := p.client.Do(req)
	if err != nil {
		utils.Zlog.Error("Z-API contacts fetch failed", zap.Error(err))
		return []VendorContact{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return []VendorContact{}
	}

	var contacts []VendorContact
	if err := json.NewDecoder(resp.Body).Decode(&contacts); err != nil {
		utils.Zlog.Error("Z-API contacts decode failed", zap.Error(err))
		return []VendorContact{}
	}
	return contacts
}

func (p *ZAPIProvider) Restart(ctx context.Context) bool {
	return p.fireAndForget(ctx, http.MethodGet, "/restart")
}

func (p *ZAPIProvider) Logout(ctx context.Context) bool {
	return p.fireAndForget(ctx, http.MethodGet, "/disconnect")
}

func (p *ZAPIProvider) fireAndForget(ctx context.Context, method, endpoint string) bool {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+endpoint, nil)
	if err != nil {
		return false
	}
	p.setHeaders(req, false)

	resp, err := p.client.Do(req)
	if err != nil {
		utils.Zlog.Warn("Z-API control call failed", zap.String("endpoint", endpoint), zap.Error(err))
		return false
	}
	resp.Body.Close()
	return true
}

func (p *ZAPIProvider) UpdateWebhook(ctx context.Context, url string) bool {
	utils.Zlog.Info("Updating Z-API webhook", zap.String("url", url))

	body, err := json.Marshal(map[string]any{"value": url, "enabled": true})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, p.baseURL+"/update-webhook-delivery", bytes.NewReader(body))
	if err != nil {
		return false
	}
	p.setHeaders(req, true)

	resp, err := p.client.Do(req)
	if err != nil {
		utils.Zlog.Error("Z-API webhook update failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		utils.Zlog.Warn("Z-API webhook update rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", strings.TrimSpace(string(respBody))))
		return false
	}
	return true
}
