package utils

import "testing"

func TestCanonicalPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5511988887777", "5511988887777"},
		{"+55 (11) 98888-7777", "5511988887777"},
		{"5511988887777@c.us", "5511988887777"},
		{"abc", ""},
		{"", ""},
	}

	for _, tc := range cases {
		got := CanonicalPhone(tc.in)
		if got != tc.want {
			t.Errorf("CanonicalPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalPhoneIdempotent(t *testing.T) {
	inputs := []string{"+55 11 98888-7777", "5511988887777@c.us", "status", ""}
	for _, in := range inputs {
		once := CanonicalPhone(in)
		twice := CanonicalPhone(once)
		if once != twice {
			t.Errorf("canonicalization not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestStripVendorSuffix(t *testing.T) {
	if got := StripVendorSuffix("5511988887777@c.us"); got != "5511988887777" {
		t.Errorf("expected @c.us stripped, got %q", got)
	}
	if got := StripVendorSuffix("5511988887777@s.whatsapp.net"); got != "5511988887777" {
		t.Errorf("expected @s.whatsapp.net stripped, got %q", got)
	}
	if got := StripVendorSuffix("5511988887777"); got != "5511988887777" {
		t.Errorf("plain phone should be unchanged, got %q", got)
	}
}

func TestGroupAndBroadcastDetection(t *testing.T) {
	if !IsGroupPhone("123456-789@g.us") {
		t.Error("expected group phone to be detected")
	}
	if IsGroupPhone("5511988887777") {
		t.Error("plain phone misdetected as group")
	}
	if !IsBroadcastPhone("status") {
		t.Error("expected status pseudo-contact to be detected")
	}
	if !IsBroadcastPhone("5511988887777@broadcast") {
		t.Error("expected broadcast phone to be detected")
	}
	if IsBroadcastPhone("5511988887777") {
		t.Error("plain phone misdetected as broadcast")
	}
}
