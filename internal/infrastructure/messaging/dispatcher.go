package messaging

import (
	"log/slog"

	"github.com/orbita-academy/progress-hub/internal/application/eventhandler"
	"github.com/orbita-academy/progress-hub/internal/domain/notification"
	"github.com/orbita-academy/progress-hub/internal/domain/shared"
)

// HandlerToggles controls which notification handlers get subscribed.
// Driven by the notify.* feature flags.
type HandlerToggles struct {
	XPGained      bool
	LevelUp       bool
	BadgeUnlocked bool
}

// RegisterProgressHandlers wires the progression event handlers onto the bus.
// Called once at startup by the binary that publishes progress events.
func RegisterProgressHandlers(bus *InMemoryEventBus, sink notification.Sink, toggles HandlerToggles, logger *slog.Logger) {
	if toggles.XPGained {
		bus.Subscribe(shared.EventXPGained, eventhandler.NewOnXPGainedHandler(sink, logger))
	}
	if toggles.LevelUp {
		bus.Subscribe(shared.EventLevelUp, eventhandler.NewOnLevelUpHandler(sink, logger))
	}
	if toggles.BadgeUnlocked {
		bus.Subscribe(shared.EventBadgeUnlocked, eventhandler.NewOnBadgeUnlockedHandler(sink, logger))
	}
}
