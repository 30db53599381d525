package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("GUEST_SESSION_TTL", "2h")

	LoadConfig()

	if AppConfig.AppPort != "8080" {
		t.Errorf("expected default port 8080, got %q", AppConfig.AppPort)
	}
	if !UseMemoryStore() {
		t.Errorf("expected memory store from env, got %q", AppConfig.StoreDriver)
	}
	if AppConfig.GuestSessionTTL != 2*time.Hour {
		t.Errorf("expected guest ttl 2h, got %v", AppConfig.GuestSessionTTL)
	}
	if AppConfig.ReferralDiscountPercent != 10 {
		t.Errorf("expected referral discount 10, got %d", AppConfig.ReferralDiscountPercent)
	}
}

func TestBusinessLocationFallback(t *testing.T) {
	AppConfig.BusinessTimezone = "Nowhere/Invalid"
	if loc := BusinessLocation(); loc != time.UTC {
		t.Errorf("expected UTC fallback, got %v", loc)
	}
	AppConfig.BusinessTimezone = "UTC"
	if loc := BusinessLocation(); loc.String() != "UTC" {
		t.Errorf("expected UTC, got %v", loc)
	}
}
