package whatsapp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/utils"
)

const defaultUltraMsgHost = "https://api.ultramsg.com"

// UltraMsgProvider talks to the UltraMsg gateway: form-encoded sends with the
// token in the body, token as a query parameter everywhere else.
type UltraMsgProvider struct {
	instanceID string
	token      string
	baseURL    string
	client     *http.Client
}

func NewUltraMsgProvider(cfg ProviderConfig) *UltraMsgProvider {
	host := cfg.APIHost
	if host == "" {
		host = defaultUltraMsgHost
	}
	return &UltraMsgProvider{
		instanceID: cfg.InstanceID,
		token:      cfg.Token,
		baseURL:    fmt.Sprintf("%s/%s", host, cfg.InstanceID),
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *UltraMsgProvider) Name() string { return "ultramsg" }

func (p *UltraMsgProvider) SendMessage(ctx context.Context, phone, message string) (json.RawMessage, error) {
	form := url.Values{}
	form.Set("token", p.token)
	form.Set("to", phone)
	form.Set("body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages/chat", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ultramsg send failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("ultramsg error (%d): %s", resp.StatusCode, resp.Status)
	}
	return json.RawMessage(respBody), nil
}

func (p *UltraMsgProvider) CheckConnection(ctx context.Context) ConnectionStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/instance/status?token="+url.QueryEscape(p.token), nil)
	if err != nil {
		return ConnectionStatus{Connected: false, Error: err.Error()}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return ConnectionStatus{Connected: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return ConnectionStatus{Connected: false, Error: err.Error()}
	}

	// Older API versions return status as a plain string; newer ones nest it
	// under status.accountStatus.status.
	statusString := ""
	switch status := data["status"].(type) {
	case string:
		statusString = status
	case map[string]any:
		if account, ok := status["accountStatus"].(map[string]any); ok {
			if s, ok := account["status"].(string); ok {
				statusString = s
			}
		}
	}

	return ConnectionStatus{
		Connected: statusString == "authenticated" || statusString == "connected",
		Status:    statusString,
		Raw:       raw,
	}
}

func (p *UltraMsgProvider) GetQrCode(ctx context.Context) QrResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/instance/qr?token="+url.QueryEscape(p.token), nil)
	if err != nil {
		return QrResult{Kind: QrUnavailable}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		utils.Zlog.Error("UltraMsg QR fetch failed", zap.Error(err))
		return QrResult{Kind: QrUnavailable}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "image") {
		img, err := io.ReadAll(resp.Body)
		if err != nil || len(img) == 0 {
			return QrResult{Kind: QrUnavailable}
		}
		return QrResult{Kind: QrImage, Image: img, ContentType: contentType}
	}

	// Not an image: a JSON error, a notice or a wrapped code.
	var data struct {
		Error string `json:"error"`
		URL   string `json:"url"`
		Qr    string `json:"qr"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return QrResult{Kind: QrUnavailable}
	}

	if strings.Contains(data.Error, `status is not equal "qr"`) {
		return QrResult{Kind: QrConnected, Message: "Instance already connected"}
	}

	if data.URL != "" {
		return p.fetchQrImage(ctx, data.URL)
	}
	if data.Qr != "" {
		return decodeDataURL(data.Qr)
	}
	return QrResult{Kind: QrUnavailable}
}

func (p *UltraMsgProvider) fetchQrImage(ctx context.Context, imageURL string) QrResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return QrResult{Kind: QrUnavailable}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		utils.Zlog.Error("UltraMsg QR image fetch failed", zap.String("url", imageURL), zap.Error(err))
		return QrResult{Kind: QrUnavailable}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
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

// decodeDataURL turns a data:image/...;base64,xxx payload into image bytes.
func decodeDataURL(s string) QrResult {
	if !strings.HasPrefix(s, "data:") {
		return QrResult{Kind: QrUnavailable}
	}
	rest := strings.TrimPrefix(s, "data:")
	parts := strings.SplitN(rest, ";base64,", 2)
	if len(parts) != 2 {
		return QrResult{Kind: QrUnavailable}
	}
	img, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return QrResult{Kind: QrUnavailable}
	}
	return QrResult{Kind: QrImage, Image: img, ContentType: parts[0]}
}

func (p *UltraMsgProvider) GetContacts(ctx context.Context) []VendorContact {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/contacts?token="+url.QueryEscape(p.token), nil)
	if err != nil {
		return []VendorContact{}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return []VendorContact{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return []VendorContact{}
	}

	var contacts []VendorContact
	if err := json.NewDecoder(resp.Body).Decode(&contacts); err != nil {
		return []VendorContact{}
	}
	return contacts
}

func (p *UltraMsgProvider) Restart(ctx context.Context) bool {
	return p.fireAndForget(ctx, "/instance/restart")
}

func (p *UltraMsgProvider) Logout(ctx context.Context) bool {
	return p.fireAndForget(ctx, "/instance/logout")
}

func (p *UltraMsgProvider) fireAndForget(ctx context.Context, endpoint string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+endpoint+"?token="+url.QueryEscape(p.token), nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		utils.Zlog.Warn("UltraMsg control call failed", zap.String("endpoint", endpoint), zap.Error(err))
		return false
	}
	resp.Body.Close()
	return true
}

// UpdateWebhook is not exposed by the UltraMsg REST API; the webhook URL is
// configured in their panel, so this is a logged no-op.
func (p *UltraMsgProvider) UpdateWebhook(ctx context.Context, url string) bool {
	utils.Zlog.Info("UltraMsg webhook must be configured in the vendor panel", zap.String("url", url))
	return false
}
