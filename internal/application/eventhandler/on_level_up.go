package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/orbita-academy/progress-hub/internal/domain/notification"
	"github.com/orbita-academy/progress-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON LEVEL UP HANDLER
// Поздравляет ученика с новым уровнем.
// ═══════════════════════════════════════════════════════════════════════════

// OnLevelUpHandler обрабатывает событие повышения уровня.
type OnLevelUpHandler struct {
	sink   notification.Sink
	logger *slog.Logger
}

// NewOnLevelUpHandler создаёт обработчик.
func NewOnLevelUpHandler(sink notification.Sink, logger *slog.Logger) *OnLevelUpHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnLevelUpHandler{sink: sink, logger: logger}
}

// Name реализует shared.EventHandler.
func (h *OnLevelUpHandler) Name() string {
	return "on_level_up"
}

// Handle реализует shared.EventHandler.
func (h *OnLevelUpHandler) Handle(event shared.Event) error {
	if event.EventType() != shared.EventLevelUp {
		return nil
	}

	payload := event.Payload()
	newLevel, _ := payload["new_level"].(int)

	n, err := notification.NewNotification(notification.NewNotificationParams{
		ID:          uuid.NewString(),
		Kind:        notification.KindLevelUp,
		RecipientID: event.AggregateID(),
		Title:       "🎉 Новый уровень!",
		Message:     fmt.Sprintf("Ты достиг %d уровня. Так держать!", newLevel),
		Payload:     payload,
	})
	if err != nil {
		return fmt.Errorf("on_level_up: build notification: %w", err)
	}

	h.sink.Notify(context.Background(), n)
	h.logger.Debug("level up notification dispatched",
		"profile_id", event.AggregateID(),
		"new_level", newLevel,
	)
	return nil
}
