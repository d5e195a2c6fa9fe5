package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrEventNotFound vem de DeleteEvent quando o evento já não existe. Quem
// chama trata como remoção bem-sucedida.
var ErrEventNotFound = errors.New("calendar event not found")

// Event é uma entrada já presente na agenda do profissional.
//
// Evento com horário traz instantes Start/End. Evento de dia inteiro marca
// AllDay e só traz as datas (Start à meia-noite, End exclusivo).
type Event struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
	AllDay  bool
}

type NewEvent struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

type Created struct {
	ID       string
	HTMLLink string
}

// Calendar é o backend remoto com a agenda do profissional.
type Calendar interface {
	// ListEvents devolve os eventos que cruzam [timeMin, timeMax), por início.
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error)
	InsertEvent(ctx context.Context, ev NewEvent) (Created, error)
	DeleteEvent(ctx context.Context, eventID string) error
}
