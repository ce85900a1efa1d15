package app

import (
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bistrokit/bistrokit/internal/domain"
)

// ConfigManager reads runtime settings from the sys_config table. Values are
// stored as strings and cast on read; every read hits the database so admin
// changes apply without a restart.
type ConfigManager struct {
	db *gorm.DB
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	return &ConfigManager{db: db}
}

func (m *ConfigManager) get(category, name string) (string, bool) {
	var cfg domain.SysConfig
	err := m.db.Where("type = ? AND name = ?", category, name).First(&cfg).Error
	if err != nil {
		return "", false
	}
	return cfg.Value, true
}

func (m *ConfigManager) GetString(category, name string) string {
	v, _ := m.get(category, name)
	return v
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	v, ok := m.get(category, name)
	if !ok {
		return 0
	}
	return cast.ToInt64(v)
}

func (m *ConfigManager) GetInt(category, name string) int {
	return int(m.GetInt64(category, name))
}

func (m *ConfigManager) GetFloat64(category, name string) float64 {
	v, ok := m.get(category, name)
	if !ok {
		return 0
	}
	return cast.ToFloat64(v)
}

func (m *ConfigManager) GetBool(category, name string) bool {
	v, ok := m.get(category, name)
	if !ok {
		return false
	}
	return cast.ToBool(v)
}

// Set upserts one setting value.
func (m *ConfigManager) Set(category, name, value string) error {
	var cfg domain.SysConfig
	err := m.db.Where("type = ? AND name = ?", category, name).First(&cfg).Error
	if err != nil {
		return m.db.Create(&domain.SysConfig{
			Type:      category,
			Name:      name,
			Value:     value,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error
	}
	err = m.db.Model(&domain.SysConfig{}).Where("id = ?", cfg.ID).Updates(map[string]interface{}{
		"value":      value,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		zap.L().Error("failed to update setting",
			zap.String("category", category), zap.String("name", name), zap.Error(err))
	}
	return err
}
