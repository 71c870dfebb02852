package contacts

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/utils"
	"github.com/zapdesk/zapdesk/internal/whatsapp"
)

// ContactStore is the slice of the persistence layer the sync needs.
type ContactStore interface {
	UpsertContact(ctx context.Context, phone, name string, profilePicURL *string) error
}

// ProviderSource resolves the active gateway adapter.
type ProviderSource interface {
	Active(ctx context.Context) whatsapp.Provider
}

// SyncService pulls the vendor contact list and upserts it into the local
// store. Partial success is the normal outcome: per-contact failures are
// counted, never fatal.
type SyncService struct {
	store     ContactStore
	providers ProviderSource
}

func NewSyncService(store ContactStore, providers ProviderSource) *SyncService {
	return &SyncService{store: store, providers: providers}
}

// Sync returns the number of contacts upserted. It fails only when the vendor
// list itself could not be processed at all.
func (s *SyncService) Sync(ctx context.Context) (int, error) {
	provider := s.providers.Active(ctx)
	utils.Zlog.Info("Syncing contacts from provider", zap.String("provider", provider.Name()))

	vendorContacts := provider.GetContacts(ctx)
	utils.Zlog.Info("Provider returned contacts", zap.Int("count", len(vendorContacts)))

	successCount := 0
	failCount := 0

	for _, vc := range vendorContacts {
		phone, name, picURL, ok := normalizeVendorContact(vc)
		if !ok {
			continue
		}
		if phone == "" {
			failCount++
			continue
		}
		if err := s.store.UpsertContact(ctx, phone, name, picURL); err != nil {
			failCount++
			continue
		}
		successCount++
	}

	if failCount > 0 {
		utils.Zlog.Warn("Some contacts failed to sync", zap.Int("failed", failCount))
	}
	utils.Zlog.Info("Contact sync finished", zap.Int("count", successCount))
	return successCount, nil
}

// normalizeVendorContact maps vendor field variants onto the canonical contact
// shape. The second-to-last return is false for groups, broadcasts and the
// status pseudo-contact, which are skipped silently.
func normalizeVendorContact(vc whatsapp.VendorContact) (phone, name string, picURL *string, ok bool) {
	rawPhone := vc.Phone
	if rawPhone == "" {
		rawPhone = vc.Number
	}
	if rawPhone == "" {
		rawPhone = vc.ID
	}

	phone = utils.StripVendorSuffix(rawPhone)

	if vc.IsGroup || utils.IsBroadcastPhone(phone) {
		return "", "", nil, false
	}

	name = vc.Name
	if name == "" {
		name = vc.Pushname
	}
	if name == "" {
		name = vc.NotifyName
	}
	if name == "" {
		name = vc.ShortName
	}
	if name == "" {
		name = phone
	}

	pic := vc.ProfilePicURL
	if pic == "" {
		pic = vc.Image
	}
	if pic == "" {
		pic = vc.ImgURL
	}
	if pic != "" {
		picURL = &pic
	}

	return phone, name, picURL, true
}

// SyncResultMessage is the user-facing confirmation for manual syncs.
func SyncResultMessage(count int) string {
	return fmt.Sprintf("Sincronização concluída: %d contatos.", count)
}
