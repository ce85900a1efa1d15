package app

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bistrokit/bistrokit/internal/domain"
)

func newSettingsDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.SysConfig{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestConfigManagerSetAndGet(t *testing.T) {
	mgr := NewConfigManager(newSettingsDB(t))

	if err := mgr.Set(ConfigRestaurant, ConfigGeofenceRadiusKm, "0.1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := mgr.GetFloat64(ConfigRestaurant, ConfigGeofenceRadiusKm); got != 0.1 {
		t.Errorf("radius = %v, want 0.1", got)
	}

	// Set on an existing row updates in place.
	if err := mgr.Set(ConfigRestaurant, ConfigGeofenceRadiusKm, "0.25"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := mgr.GetFloat64(ConfigRestaurant, ConfigGeofenceRadiusKm); got != 0.25 {
		t.Errorf("radius after update = %v, want 0.25", got)
	}

	var count int64
	mgr.db.Model(&domain.SysConfig{}).Count(&count)
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
}

func TestConfigManagerDefaults(t *testing.T) {
	mgr := NewConfigManager(newSettingsDB(t))

	if got := mgr.GetString(ConfigRestaurant, "Missing"); got != "" {
		t.Errorf("missing string = %q, want empty", got)
	}
	if got := mgr.GetInt64(ConfigRestaurant, "Missing"); got != 0 {
		t.Errorf("missing int = %d, want 0", got)
	}
	if mgr.GetBool(ConfigRestaurant, "Missing") {
		t.Error("missing bool should be false")
	}
}

func TestConfigManagerBoolCasting(t *testing.T) {
	mgr := NewConfigManager(newSettingsDB(t))

	for _, v := range []string{"true", "1", "TRUE"} {
		if err := mgr.Set(ConfigRestaurant, ConfigGeofenceEnabled, v); err != nil {
			t.Fatalf("set %q: %v", v, err)
		}
		if !mgr.GetBool(ConfigRestaurant, ConfigGeofenceEnabled) {
			t.Errorf("value %q should read as true", v)
		}
	}
}
