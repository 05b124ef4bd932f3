// Package service contains infrastructure adapters behind the
// application layer's small interfaces: the notification sink and the
// asynchronous remote profile sync.
package service

import (
	"context"

	"github.com/orbita-academy/progress-hub/internal/domain/notification"
	"github.com/orbita-academy/progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION SINK
// ══════════════════════════════════════════════════════════════════════════════

// ChannelSink implements notification.Sink by handing notifications to a
// bounded channel consumed by delivery transports. Notify never blocks:
// when the channel is full the notification is dropped with a warning.
// Dropped toasts are acceptable; a blocked write path is not.
type ChannelSink struct {
	out chan *notification.Notification
	log *logger.Logger
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(bufferSize int, log *logger.Logger) *ChannelSink {
	if bufferSize <= 0 {
		bufferSize = 128
	}
	if log == nil {
		log = logger.Default()
	}
	return &ChannelSink{
		out: make(chan *notification.Notification, bufferSize),
		log: log,
	}
}

// Notify implements notification.Sink.
func (s *ChannelSink) Notify(ctx context.Context, n *notification.Notification) {
	if n == nil {
		return
	}
	select {
	case s.out <- n:
	default:
		s.log.Warn("notification dropped, sink buffer full",
			logger.String("notification_id", n.ID),
			logger.String("recipient_id", n.RecipientID),
			logger.String("kind", string(n.Kind)),
		)
	}
}

// Out exposes the delivery channel for transport consumers.
func (s *ChannelSink) Out() <-chan *notification.Notification {
	return s.out
}

// LogSink implements notification.Sink by logging each notification.
// Used in the worker binary and in development, where no user-facing
// transport is attached.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a logging sink.
func NewLogSink(log *logger.Logger) *LogSink {
	if log == nil {
		log = logger.Default()
	}
	return &LogSink{log: log}
}

// Notify implements notification.Sink.
func (s *LogSink) Notify(ctx context.Context, n *notification.Notification) {
	if n == nil {
		return
	}
	s.log.Info("notification",
		logger.String("notification_id", n.ID),
		logger.String("recipient_id", n.RecipientID),
		logger.String("kind", string(n.Kind)),
		logger.String("title", n.Title),
		logger.String("message", n.Message),
	)
}
