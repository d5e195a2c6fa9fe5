package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"CLINIC_START_HOUR", "CLINIC_END_HOUR", "CLINIC_SLOT_MINUTES", "BOOKING_RECHECK_SLOT", "CANCEL_REQUIRES_OWNER", "SERVER_PORT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, 10, cfg.StartHour)
	assert.Equal(t, 17, cfg.EndHour)
	assert.Equal(t, time.Hour, cfg.SlotDuration())
	assert.True(t, cfg.RecheckSlotOnBook)
	assert.True(t, cfg.CancelRequiresOwner)
	assert.False(t, cfg.RequireBirthDate)
	assert.Equal(t, ":8080", cfg.Addr())
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CLINIC_START_HOUR", "8")
	t.Setenv("CLINIC_END_HOUR", "12")
	t.Setenv("CLINIC_SLOT_MINUTES", "30")
	t.Setenv("REQUIRE_BIRTH_DATE", "true")
	t.Setenv("SLOT_LOCK_TTL", "5s")
	t.Setenv("BOOKING_RECHECK_SLOT", "not-a-bool")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://clinic.example, ,https://admin.clinic.example")

	cfg := Load()
	assert.Equal(t, 8, cfg.StartHour)
	assert.Equal(t, 12, cfg.EndHour)
	assert.Equal(t, 30*time.Minute, cfg.SlotDuration())
	assert.True(t, cfg.RequireBirthDate)
	assert.Equal(t, 5*time.Second, cfg.SlotLockTTL)
	assert.True(t, cfg.RecheckSlotOnBook)
	assert.Equal(t, []string{"https://clinic.example", "https://admin.clinic.example"}, cfg.CORSAllowedOrigins)
}

func TestValidateRejectsInvertedWindow(t *testing.T) {
	cfg := &Config{StartHour: 17, EndHour: 10, SlotMinutes: 60}
	assert.Error(t, cfg.Validate())

	cfg = &Config{StartHour: 10, EndHour: 17, SlotMinutes: 0}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsOverlappingSlots(t *testing.T) {
	cfg := &Config{StartHour: 10, EndHour: 17, SlotMinutes: 90}
	assert.Error(t, cfg.Validate())

	cfg.SlotMinutes = 60
	assert.NoError(t, cfg.Validate())

	cfg.SlotMinutes = 45
	assert.NoError(t, cfg.Validate())
}
