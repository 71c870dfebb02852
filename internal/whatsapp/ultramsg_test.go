package whatsapp

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUltraMsgSendMessage(t *testing.T) {
	var gotPath, gotContentType string
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		gotForm = map[string]string{
			"token": r.PostFormValue("token"),
			"to":    r.PostFormValue("to"),
			"body":  r.PostFormValue("body"),
		}
		w.Write([]byte(`{"sent":"true","id":42}`))
	}))
	defer srv.Close()

	p := NewUltraMsgProvider(ProviderConfig{APIHost: srv.URL, InstanceID: "instance1", Token: "tok1"})
	raw, err := p.SendMessage(context.Background(), "5511988887777", "Olá")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(raw), `"sent"`) {
		t.Errorf("vendor response not returned, got %s", raw)
	}
	if gotPath != "/instance1/messages/chat" {
		t.Errorf("wrong send path: %s", gotPath)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("send must be form-encoded, got %s", gotContentType)
	}
	if gotForm["token"] != "tok1" || gotForm["to"] != "5511988887777" || gotForm["body"] != "Olá" {
		t.Errorf("wrong form values: %+v", gotForm)
	}
}

func TestUltraMsgSendMessageVendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewUltraMsgProvider(ProviderConfig{APIHost: srv.URL, InstanceID: "instance1", Token: "tok1"})
	if _, err := p.SendMessage(context.Background(), "5511988887777", "Olá"); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestUltraMsgCheckConnection(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		want       bool
		wantStatus string
	}{
		{"nested authenticated", `{"status":{"accountStatus":{"status":"authenticated"}}}`, true, "authenticated"},
		{"flat connected", `{"status":"connected"}`, true, "connected"},
		{"standby", `{"status":{"accountStatus":{"status":"standby"}}}`, false, "standby"},
		{"garbage", `oops`, false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("token") != "tok1" {
					t.Errorf("token missing from query: %s", r.URL.RawQuery)
				}
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			p := NewUltraMsgProvider(ProviderConfig{APIHost: srv.URL, InstanceID: "instance1", Token: "tok1"})
			status := p.CheckConnection(context.Background())
			if status.Connected != tc.want {
				t.Errorf("connected = %v, want %v", status.Connected, tc.want)
			}
			if status.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", status.Status, tc.wantStatus)
			}
		})
	}
}

func TestUltraMsgGetQrCodeImage(t *testing.T) {
	qrPNG := []byte{0x89, 'P', 'N', 'G'}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(qrPNG)
	}))
	defer srv.Close()

	p := NewUltraMsgProvider(ProviderConfig{APIHost: srv.URL, InstanceID: "instance1", Token: "tok1"})
	qr := p.GetQrCode(context.Background())
	if qr.Kind != QrImage || qr.ContentType != "image/png" {
		t.Errorf("expected image result, got kind=%d type=%s", qr.Kind, qr.ContentType)
	}
}

func TestUltraMsgGetQrCodeAlreadyConnected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"instance status is not equal \"qr\""}`))
	}))
	defer srv.Close()

	p := NewUltraMsgProvider(ProviderConfig{APIHost: srv.URL, InstanceID: "instance1", Token: "tok1"})
	qr := p.GetQrCode(context.Background())
	if qr.Kind != QrConnected {
		t.Errorf("expected QrConnected, got kind %d", qr.Kind)
	}
}

func TestUltraMsgGetQrCodeFollowsURL(t *testing.T) {
	qrPNG := []byte{0x89, 'P', 'N', 'G'}
	var imageSrv *httptest.Server
	imageSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(qrPNG)
	}))
	defer imageSrv.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"` + imageSrv.URL + `/qr.png"}`))
	}))
	defer srv.Close()

	p := NewUltraMsgProvider(ProviderConfig{APIHost: srv.URL, InstanceID: "instance1", Token: "tok1"})
	qr := p.GetQrCode(context.Background())
	if qr.Kind != QrImage || len(qr.Image) != len(qrPNG) {
		t.Errorf("expected image fetched from url field, got kind=%d len=%d", qr.Kind, len(qr.Image))
	}
}

func TestUltraMsgGetQrCodeDataURL(t *testing.T) {
	qrPNG := []byte{0x89, 'P', 'N', 'G'}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"qr":"` + dataURL + `"}`))
	}))
	defer srv.Close()

	p := NewUltraMsgProvider(ProviderConfig{APIHost: srv.URL, InstanceID: "instance1", Token: "tok1"})
	qr := p.GetQrCode(context.Background())
	if qr.Kind != QrImage {
		t.Fatalf("expected decoded image, got kind %d", qr.Kind)
	}
	if qr.ContentType != "image/png" || string(qr.Image) != string(qrPNG) {
		t.Errorf("decoded payload wrong: type=%s image=%v", qr.ContentType, qr.Image)
	}
}

func TestDecodeDataURLMalformed(t *testing.T) {
	for _, s := range []string{"", "nonsense", "data:image/png;base64,!!!", "data:image/png,rawdata"} {
		if qr := decodeDataURL(s); qr.Kind != QrUnavailable {
			t.Errorf("decodeDataURL(%q) should be unavailable, got kind %d", s, qr.Kind)
		}
	}
}

func TestUltraMsgUpdateWebhookIsNoOp(t *testing.T) {
	p := NewUltraMsgProvider(ProviderConfig{InstanceID: "instance1", Token: "tok1"})
	if p.UpdateWebhook(context.Background(), "https://app.example/api/webhook/message") {
		t.Error("UltraMsg webhook update must report false")
	}
}
