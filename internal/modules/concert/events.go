package concert

import (
	"time"

	"concerthall/internal/domain"
)

type EventType string

const (
	EventCreated   EventType = "concert.created"
	EventUpdated   EventType = "concert.updated"
	EventCancelled EventType = "concert.cancelled"
	EventDeleted   EventType = "concert.deleted"
	EventCompleted EventType = "concert.completed"
)

type Event struct {
	Type           EventType            `json:"type"`
	ConcertID      int64                `json:"concert_id"`
	Status         domain.ConcertStatus `json:"status"`
	OrganizationID int64                `json:"organization_id"`
	At             time.Time            `json:"at"`
}

func newEvent(t EventType, c *domain.Concert, at time.Time) Event {
	return Event{
		Type:           t,
		ConcertID:      c.ID,
		Status:         c.Status,
		OrganizationID: c.OrganizationID,
		At:             at.UTC(),
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
