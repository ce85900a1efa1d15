package app

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bistrokit/bistrokit/internal/domain"
	"github.com/bistrokit/bistrokit/pkg/common"
)

// Setting categories stored in sys_config.
const (
	ConfigRestaurant = "restaurant"
	ConfigMail       = "mail"
)

// Restaurant setting names.
const (
	ConfigRestaurantName        = "RestaurantName"
	ConfigGeofenceLatitude      = "GeofenceLatitude"
	ConfigGeofenceLongitude     = "GeofenceLongitude"
	ConfigGeofenceRadiusKm      = "GeofenceRadiusKm"
	ConfigGeofenceEnabled       = "GeofenceEnabled"
	ConfigCurrency              = "Currency"
	ConfigDeliveryNotifyEnabled = "DeliveryNotifyEnabled"
)

// Mail setting names.
const (
	ConfigMailSmtpServer   = "SmtpServer"
	ConfigMailSmtpPort     = "SmtpPort"
	ConfigMailSmtpUsername = "SmtpUsername"
	ConfigMailSmtpPassword = "SmtpPassword"
	ConfigMailFrom         = "MailFrom"
	ConfigMailTo           = "MailTo"
)

// checkSuper creates the default administrator account on first run.
func (a *Application) checkSuper() {
	var count int64
	a.gormDB.Model(&domain.SysOpr{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte("bistrokit"), bcrypt.DefaultCost)
	if err != nil {
		zap.S().Errorf("failed to hash default password: %v", err)
		return
	}
	a.gormDB.Create(&domain.SysOpr{
		ID:         common.UUIDint64(),
		Realname:   "administrator",
		Username:   "admin",
		Password:   string(hashed),
		IsAdmin:    true,
		IsEmployee: true,
		Status:     common.ENABLED,
		Remark:     "system",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	})
	zap.S().Info("created default admin account")
}

// checkSettings seeds every missing runtime setting with its default so the
// admin panel always has a complete list to edit.
func (a *Application) checkSettings() {
	defaults := []domain.SysConfig{
		{Sort: 1, Type: ConfigRestaurant, Name: ConfigRestaurantName, Value: "BistroKit", Remark: "Restaurant display name"},
		{Sort: 2, Type: ConfigRestaurant, Name: ConfigGeofenceLatitude, Value: "50.83174207392536", Remark: "Geofence center latitude"},
		{Sort: 3, Type: ConfigRestaurant, Name: ConfigGeofenceLongitude, Value: "19.08261400134686", Remark: "Geofence center longitude"},
		{Sort: 4, Type: ConfigRestaurant, Name: ConfigGeofenceRadiusKm, Value: "0.1", Remark: "Geofence radius in kilometers"},
		{Sort: 5, Type: ConfigRestaurant, Name: ConfigGeofenceEnabled, Value: "true", Remark: "Require on-site location for table orders"},
		{Sort: 6, Type: ConfigRestaurant, Name: ConfigCurrency, Value: "pln", Remark: "Checkout currency code"},
		{Sort: 7, Type: ConfigRestaurant, Name: ConfigDeliveryNotifyEnabled, Value: "false", Remark: "Email staff about delivery orders"},
		{Sort: 10, Type: ConfigMail, Name: ConfigMailSmtpServer, Value: "", Remark: "SMTP server host"},
		{Sort: 11, Type: ConfigMail, Name: ConfigMailSmtpPort, Value: "587", Remark: "SMTP server port"},
		{Sort: 12, Type: ConfigMail, Name: ConfigMailSmtpUsername, Value: "", Remark: "SMTP username"},
		{Sort: 13, Type: ConfigMail, Name: ConfigMailSmtpPassword, Value: "", Remark: "SMTP password"},
		{Sort: 14, Type: ConfigMail, Name: ConfigMailFrom, Value: "", Remark: "Notification sender address"},
		{Sort: 15, Type: ConfigMail, Name: ConfigMailTo, Value: "", Remark: "Notification recipient address"},
	}
	for _, item := range defaults {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? AND name = ?", item.Type, item.Name).Count(&count)
		if count > 0 {
			continue
		}
		item.ID = common.UUIDint64()
		item.CreatedAt = time.Now()
		item.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&item).Error; err != nil {
			zap.S().Errorf("failed to seed setting %s/%s: %v", item.Type, item.Name, err)
		}
	}
}
