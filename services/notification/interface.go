package notification

import (
	"context"
	"fmt"

	"carwash/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService publishes booking status changes to subscribed devices.
type NotificationService interface {
	NotifyBookingStatus(ctx context.Context, payload models.StatusNotificationPayload) error
}

// Sender is the part of the FCM client the publisher uses.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// BookingTopic is the FCM topic a booking's devices subscribe to.
func BookingTopic(bookingID string) string {
	return "booking-" + bookingID
}

// FCMNotificationService sends data-only messages; clients render them.
type FCMNotificationService struct {
	Client Sender
	Logger *zap.Logger
}

func NewFCMNotificationService(client Sender, logger *zap.Logger) (*FCMNotificationService, error) {
	if client == nil {
		return nil, fmt.Errorf("notification service initialization error: FCM client is nil")
	}
	return &FCMNotificationService{Client: client, Logger: logger}, nil
}

func (s *FCMNotificationService) NotifyBookingStatus(ctx context.Context, payload models.StatusNotificationPayload) error {
	msg := &messaging.Message{
		Topic: BookingTopic(payload.BookingID),
		Data:  statusData(payload),
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "5",
				"apns-push-type": "background",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{ContentAvailable: true},
			},
		},
	}

	id, err := s.Client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotifyBookingStatus: failed to send FCM message: %w", err)
	}
	s.Logger.Debug("status notification sent",
		zap.String("bookingId", payload.BookingID),
		zap.String("status", string(payload.Status)),
		zap.String("messageId", id))
	return nil
}

func statusData(p models.StatusNotificationPayload) map[string]string {
	return map[string]string{
		"type":      "booking_status",
		"bookingId": p.BookingID,
		"status":    string(p.Status),
		"date":      p.Date,
		"time":      p.Time,
		"updatedBy": p.UpdatedBy,
	}
}

// LogNotificationService only logs; used when push is disabled.
type LogNotificationService struct {
	Logger *zap.Logger
}

func (s *LogNotificationService) NotifyBookingStatus(_ context.Context, payload models.StatusNotificationPayload) error {
	s.Logger.Info("booking status changed",
		zap.String("bookingId", payload.BookingID),
		zap.String("customerRef", payload.CustomerRef),
		zap.String("status", string(payload.Status)))
	return nil
}
