package webhook

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/ai"
	"github.com/zapdesk/zapdesk/internal/loaders"
	"github.com/zapdesk/zapdesk/internal/utils"
	"github.com/zapdesk/zapdesk/internal/whatsapp"
)

const historyLimit = 10

// Store is the slice of the persistence layer the pipeline needs.
type Store interface {
	UpsertConversation(ctx context.Context, phone, name string) (*loaders.ConversationRecord, error)
	InsertMessage(ctx context.Context, conversationID, content string, fromMe bool) (*loaders.MessageRecord, error)
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]loaders.MessageRecord, error)
	CreateAppointment(ctx context.Context, phone, client, service, date string) (*loaders.AppointmentRecord, error)
}

// ProviderSource resolves the active gateway adapter.
type ProviderSource interface {
	Active(ctx context.Context) whatsapp.Provider
}

// Responder generates assistant replies and exposes the assistant config used
// for the auto-reply gate and admin notifications.
type Responder interface {
	GenerateReply(ctx context.Context, userMessage string, history []loaders.MessageRecord) string
	LoadConfig(ctx context.Context) *ai.Config
}

// ContactSyncer pulls the vendor contact list into the local store.
type ContactSyncer interface {
	Sync(ctx context.Context) (int, error)
}

// Ack is the body returned to the vendor. The webhook always answers 200 so
// vendors never enter retry storms over payloads we cannot use.
type Ack struct {
	Success bool   `json:"success,omitempty"`
	Status  string `json:"status,omitempty"`
	Action  string `json:"action,omitempty"`
}

// Service orchestrates the inbound pipeline: normalize, filter, persist,
// auto-reply, extract appointments, dispatch.
type Service struct {
	store     Store
	providers ProviderSource
	responder Responder
	syncer    ContactSyncer
}

func NewService(store Store, providers ProviderSource, responder Responder, syncer ContactSyncer) *Service {
	return &Service{
		store:     store,
		providers: providers,
		responder: responder,
		syncer:    syncer,
	}
}

// HandleInbound runs the pipeline for one webhook payload and returns the
// acknowledgment to send back. Internal failures are logged, never surfaced to
// the vendor.
func (s *Service) HandleInbound(ctx context.Context, body map[string]any) Ack {
	if IsConnectionEvent(body) {
		utils.Zlog.Info("Device connected, triggering contact sync")
		go func() {
			count, err := s.syncer.Sync(context.Background())
			if err != nil {
				utils.Zlog.Error("Background contact sync failed", zap.Error(err))
				return
			}
			utils.Zlog.Info("Background contact sync finished", zap.Int("count", count))
		}()
		return Ack{Success: true, Action: "sync_started"}
	}

	inbound, ok := ParseInbound(body)
	if !ok {
		return Ack{Status: "ignored"}
	}

	if utils.IsGroupPhone(inbound.Phone) {
		return Ack{Status: "ignored_group"}
	}
	if utils.IsBroadcastPhone(inbound.Phone) {
		return Ack{Status: "ignored_broadcast"}
	}

	phone := utils.CanonicalPhone(inbound.Phone)
	if phone == "" {
		return Ack{Status: "ignored"}
	}

	conv, err := s.store.UpsertConversation(ctx, phone, inbound.Name)
	if err != nil {
		utils.Zlog.Error("Failed to upsert conversation", zap.String("phone", phone), zap.Error(err))
		return Ack{Status: "ignored"}
	}

	// Inbound content is always recorded, whatever the AI outcome.
	msg, err := s.store.InsertMessage(ctx, conv.ID, inbound.Content, false)
	if err != nil {
		utils.Zlog.Error("Failed to persist inbound message", zap.String("phone", phone), zap.Error(err))
		return Ack{Status: "ignored"}
	}

	aiCfg := s.responder.LoadConfig(ctx)
	if !msg.FromMe && conv.Status == "active" && aiCfg.IsEnabled() {
		s.autoReply(ctx, conv, inbound.Content, aiCfg)
	}

	return Ack{Success: true}
}

func (s *Service) autoReply(ctx context.Context, conv *loaders.ConversationRecord, content string, aiCfg *ai.Config) {
	utils.Zlog.Info("Triggering AI auto-reply", zap.String("phone", conv.Phone))

	history, err := s.store.RecentMessages(ctx, conv.ID, historyLimit)
	if err != nil {
		utils.Zlog.Warn("Failed to load conversation history", zap.String("phone", conv.Phone), zap.Error(err))
		history = nil
	}
	// RecentMessages is newest-first; the model wants chronological order.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	replyText := s.responder.GenerateReply(ctx, content, history)

	cleaned, appt, err := ExtractAppointment(replyText)
	if err != nil {
		utils.Zlog.Warn("Malformed appointment marker in AI reply", zap.String("phone", conv.Phone), zap.Error(err))
	}
	if appt != nil {
		replyText = cleaned
		s.saveAppointment(ctx, conv, appt, aiCfg)
	}

	provider := s.providers.Active(ctx)
	if _, err := provider.SendMessage(ctx, conv.Phone, replyText); err != nil {
		utils.Zlog.Error("Failed to send AI reply", zap.String("phone", conv.Phone), zap.Error(err))
	}

	// The reply is part of the transcript even when delivery failed.
	if _, err := s.store.InsertMessage(ctx, conv.ID, replyText, true); err != nil {
		utils.Zlog.Error("Failed to persist outbound message", zap.String("phone", conv.Phone), zap.Error(err))
	}
}

func (s *Service) saveAppointment(ctx context.Context, conv *loaders.ConversationRecord, appt *AppointmentData, aiCfg *ai.Config) {
	client := appt.Client
	if client == "" {
		client = conv.Name
	}
	if client == "" {
		client = "Cliente"
	}
	service := appt.Service
	if service == "" {
		service = "Serviço não especificado"
	}
	date := appt.Date
	if date == "" {
		date = "Data não especificada"
	}

	if _, err := s.store.CreateAppointment(ctx, conv.Phone, client, service, date); err != nil {
		utils.Zlog.Error("Failed to save appointment", zap.String("phone", conv.Phone), zap.Error(err))
		return
	}
	utils.Zlog.Info("Appointment saved",
		zap.String("phone", conv.Phone),
		zap.String("client", client),
		zap.String("date", date))

	if aiCfg == nil || aiCfg.AdminPhone == "" {
		return
	}
	adminMsg := fmt.Sprintf("🔔 *NOVO AGENDAMENTO*\n👤 %s\n📅 %s", client, date)
	if _, err := s.providers.Active(ctx).SendMessage(ctx, aiCfg.AdminPhone, adminMsg); err != nil {
		utils.Zlog.Warn("Failed to notify admin about appointment", zap.Error(err))
	}
}
