package utils

import "strings"

// CanonicalPhone reduces a WhatsApp identifier to digits only. The result is
// the unique join key across conversations, messages and contacts.
func CanonicalPhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// StripVendorSuffix removes the JID suffixes vendors append to phone ids.
func StripVendorSuffix(phone string) string {
	phone = strings.TrimSuffix(phone, "@c.us")
	phone = strings.TrimSuffix(phone, "@s.whatsapp.net")
	return phone
}

// IsGroupPhone reports whether the identifier denotes a group chat.
func IsGroupPhone(phone string) bool {
	return strings.Contains(phone, "@g.us")
}

// IsBroadcastPhone reports whether the identifier denotes a broadcast list or
// the "status" pseudo-contact.
func IsBroadcastPhone(phone string) bool {
	return phone == "status" || strings.Contains(phone, "broadcast")
}
