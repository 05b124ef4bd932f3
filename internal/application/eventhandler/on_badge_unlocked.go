package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/orbita-academy/progress-hub/internal/domain/badge"
	"github.com/orbita-academy/progress-hub/internal/domain/notification"
	"github.com/orbita-academy/progress-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON BADGE UNLOCKED HANDLER
// Отправляет одно уведомление на каждый разблокированный бейдж,
// в порядке обнаружения.
// ═══════════════════════════════════════════════════════════════════════════

// OnBadgeUnlockedHandler обрабатывает событие получения бейджа.
type OnBadgeUnlockedHandler struct {
	sink   notification.Sink
	logger *slog.Logger
}

// NewOnBadgeUnlockedHandler создаёт обработчик.
func NewOnBadgeUnlockedHandler(sink notification.Sink, logger *slog.Logger) *OnBadgeUnlockedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnBadgeUnlockedHandler{sink: sink, logger: logger}
}

// Name реализует shared.EventHandler.
func (h *OnBadgeUnlockedHandler) Name() string {
	return "on_badge_unlocked"
}

// Handle реализует shared.EventHandler.
func (h *OnBadgeUnlockedHandler) Handle(event shared.Event) error {
	if event.EventType() != shared.EventBadgeUnlocked {
		return nil
	}

	payload := event.Payload()
	badgeID, _ := payload["badge_id"].(string)

	message := fmt.Sprintf("Ты получил бейдж: %s!", badgeID)
	if def, found := badge.GetDefinition(badge.ID(badgeID)); found {
		message = fmt.Sprintf("%s %s\n\n%s", def.Emoji, def.Name, def.Description)
	}

	n, err := notification.NewNotification(notification.NewNotificationParams{
		ID:          uuid.NewString(),
		Kind:        notification.KindBadgeUnlocked,
		RecipientID: event.AggregateID(),
		Title:       "🏅 Новый бейдж!",
		Message:     message,
		Payload: map[string]interface{}{
			"badge_id": badgeID,
		},
	})
	if err != nil {
		return fmt.Errorf("on_badge_unlocked: build notification: %w", err)
	}

	h.sink.Notify(context.Background(), n)
	h.logger.Debug("badge notification dispatched",
		"profile_id", event.AggregateID(),
		"badge_id", badgeID,
	)
	return nil
}
