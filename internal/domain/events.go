package domain

import "time"

// MovementRecordedEvent is emitted after a movement is accepted into the log.
type MovementRecordedEvent struct {
	MovementID  int64        `json:"movement_id"`
	Type        MovementType `json:"type"`
	AmountCents int64        `json:"amount_cents"`
	CreatedAt   time.Time    `json:"created_at"`
	Description string       `json:"description,omitempty"`
}

// NewMovementRecordedEvent builds the event payload for a movement.
func NewMovementRecordedEvent(m Movement) MovementRecordedEvent {
	return MovementRecordedEvent{
		MovementID:  m.ID,
		Type:        m.Type,
		AmountCents: m.AmountCents,
		CreatedAt:   m.CreatedAt,
		Description: m.Description,
	}
}
