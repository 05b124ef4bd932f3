// Package notification содержит доменную модель уведомлений о прогрессе.
// Уведомления - это fire-and-forget канал: движок сообщает о дельтах
// (XP, уровень, бейджи) и никогда не ждёт и не проверяет доставку.
package notification

import (
	"context"
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// KIND
// ══════════════════════════════════════════════════════════════════════════════

// Kind определяет тип уведомления.
type Kind string

const (
	// KindXPGained - получен XP.
	KindXPGained Kind = "xp_gained"
	// KindLevelUp - достигнут новый уровень.
	KindLevelUp Kind = "level_up"
	// KindBadgeUnlocked - получен бейдж.
	KindBadgeUnlocked Kind = "badge_unlocked"
	// KindInfo - информационное сообщение.
	KindInfo Kind = "info"
)

// IsValid проверяет корректность типа уведомления.
func (k Kind) IsValid() bool {
	switch k {
	case KindXPGained, KindLevelUp, KindBadgeUnlocked, KindInfo:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление типа.
func (k Kind) String() string {
	return string(k)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// Notification представляет одно уведомление ученику.
type Notification struct {
	// ID - уникальный идентификатор уведомления.
	ID string

	// Kind - тип уведомления.
	Kind Kind

	// RecipientID - идентификатор профиля-получателя.
	RecipientID string

	// Title - заголовок.
	Title string

	// Message - текст сообщения.
	Message string

	// Payload - дополнительные данные (сумма XP, id бейджа и т.д.).
	Payload map[string]interface{}

	// CreatedAt - время создания.
	CreatedAt time.Time
}

// Доменные ошибки уведомлений.
var (
	// ErrInvalidKind - неизвестный тип уведомления.
	ErrInvalidKind = errors.New("invalid notification kind")

	// ErrEmptyRecipient - не указан получатель.
	ErrEmptyRecipient = errors.New("notification recipient is required")
)

// NewNotificationParams содержит параметры для создания уведомления.
type NewNotificationParams struct {
	ID          string
	Kind        Kind
	RecipientID string
	Title       string
	Message     string
	Payload     map[string]interface{}
}

// NewNotification создаёт уведомление с валидацией.
func NewNotification(params NewNotificationParams) (*Notification, error) {
	if !params.Kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if params.RecipientID == "" {
		return nil, ErrEmptyRecipient
	}

	return &Notification{
		ID:          params.ID,
		Kind:        params.Kind,
		RecipientID: params.RecipientID,
		Title:       params.Title,
		Message:     params.Message,
		Payload:     params.Payload,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// SetPayload добавляет значение в полезную нагрузку.
func (n *Notification) SetPayload(key string, value interface{}) {
	if n.Payload == nil {
		n.Payload = make(map[string]interface{})
	}
	n.Payload[key] = value
}

// ══════════════════════════════════════════════════════════════════════════════
// SINK
// ══════════════════════════════════════════════════════════════════════════════

// Sink - канал доставки уведомлений.
// Контракт fire-and-forget: Notify никогда не блокирует и не возвращает
// ошибок вызывающему; сбои доставки логируются реализацией.
type Sink interface {
	Notify(ctx context.Context, n *Notification)
}
