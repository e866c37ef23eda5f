package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/seller-admin-service/internal/config"
	"github.com/spec-kit/seller-admin-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSellerRegistered, n.handleSellerRegistered)
	n.dispatcher.Subscribe(events.EventSellerStatusChanged, n.handleSellerStatusChanged)
	n.dispatcher.Subscribe(events.EventSellerProfileRevised, n.handleSellerProfileRevised)
}

func (n *NotificationService) handleSellerRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("SellerRegistered", zap.Int64("seller_account_id", event.SellerAccountID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSellerStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("SellerStatusChanged", zap.Int64("seller_account_id", event.SellerAccountID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSellerProfileRevised(ctx context.Context, event events.Event) error {
	n.logger.Info("SellerProfileRevised", zap.Int64("seller_account_id", event.SellerAccountID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("seller_account_id", event.SellerAccountID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("seller_account_id", event.SellerAccountID),
		zap.String("event_type", string(event.Type)))
}
