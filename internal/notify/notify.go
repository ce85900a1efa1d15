package notify

import (
	"fmt"
	"strings"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/bistrokit/bistrokit/internal/app"
	"github.com/bistrokit/bistrokit/internal/domain"
	"github.com/bistrokit/bistrokit/internal/ordering"
	"github.com/bistrokit/bistrokit/pkg/mailer"
)

// Notifier mails the staff about new delivery orders. It listens on the
// order-created topic and stays quiet for dine-in orders.
type Notifier struct {
	appCtx app.AppContext
	mail   *mailer.Mailer
}

func New(appCtx app.AppContext) *Notifier {
	n := &Notifier{appCtx: appCtx}
	n.mail = mailer.New(n.mailSettings)
	return n
}

func (n *Notifier) mailSettings() mailer.Settings {
	return mailer.Settings{
		Host:     n.appCtx.GetSettingsStringValue(app.ConfigMail, app.ConfigMailSmtpServer),
		Port:     int(n.appCtx.GetSettingsInt64Value(app.ConfigMail, app.ConfigMailSmtpPort)),
		Username: n.appCtx.GetSettingsStringValue(app.ConfigMail, app.ConfigMailSmtpUsername),
		Password: n.appCtx.GetSettingsStringValue(app.ConfigMail, app.ConfigMailSmtpPassword),
		From:     n.appCtx.GetSettingsStringValue(app.ConfigMail, app.ConfigMailFrom),
		To:       n.appCtx.GetSettingsStringValue(app.ConfigMail, app.ConfigMailTo),
	}
}

// Subscribe attaches the notifier to the event bus.
func (n *Notifier) Subscribe(bus EventBus.Bus) error {
	return bus.SubscribeAsync(ordering.TopicOrderCreated, n.onOrderCreated, false)
}

func (n *Notifier) onOrderCreated(order *domain.Order) {
	if order == nil || order.TableID != nil {
		return
	}
	if !n.appCtx.GetSettingsBoolValue(app.ConfigRestaurant, app.ConfigDeliveryNotifyEnabled) {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New delivery order #%d (%.2f)\n\n", order.OrderNumber, order.TotalPrice)
	fmt.Fprintf(&b, "Name: %s\nPhone: %s\nAddress: %s %s\n",
		order.DeliveryName, order.DeliveryPhone, order.DeliveryAddress, order.DeliveryPostal)
	if order.DeliveryComments != "" {
		fmt.Fprintf(&b, "Comments: %s\n", order.DeliveryComments)
	}

	n.mail.Send(fmt.Sprintf("Delivery order #%d", order.OrderNumber), b.String())
	zap.L().Info("delivery notification queued", zap.Int64("order_id", order.ID))
}
