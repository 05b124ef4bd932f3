// Package eventhandler содержит обработчики доменных событий.
// Обработчики превращают события движка прогресса в уведомления ученику.
// Сбои обработчиков логируются шиной и никогда не ломают поток записи.
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
// ON XP GAINED HANDLER
// Сообщает ученику о начисленном XP.
// ═══════════════════════════════════════════════════════════════════════════

// OnXPGainedHandler обрабатывает событие получения XP.
type OnXPGainedHandler struct {
	sink   notification.Sink
	logger *slog.Logger
}

// NewOnXPGainedHandler создаёт обработчик.
func NewOnXPGainedHandler(sink notification.Sink, logger *slog.Logger) *OnXPGainedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnXPGainedHandler{sink: sink, logger: logger}
}

// Name реализует shared.EventHandler.
func (h *OnXPGainedHandler) Name() string {
	return "on_xp_gained"
}

// Handle реализует shared.EventHandler.
func (h *OnXPGainedHandler) Handle(event shared.Event) error {
	if event.EventType() != shared.EventXPGained {
		return nil
	}

	payload := event.Payload()
	amount, _ := payload["amount"].(int)
	reason, _ := payload["reason"].(string)

	n, err := notification.NewNotification(notification.NewNotificationParams{
		ID:          uuid.NewString(),
		Kind:        notification.KindXPGained,
		RecipientID: event.AggregateID(),
		Title:       "⚡ Опыт получен!",
		Message:     fmt.Sprintf("+%d XP", amount),
		Payload: map[string]interface{}{
			"amount": amount,
			"reason": reason,
		},
	})
	if err != nil {
		return fmt.Errorf("on_xp_gained: build notification: %w", err)
	}

	h.sink.Notify(context.Background(), n)
	h.logger.Debug("xp notification dispatched",
		"profile_id", event.AggregateID(),
		"amount", amount,
	)
	return nil
}
