package schedule

import (
	"fmt"
	"time"
)

type NoticeReason string

const (
	ReasonUnresolvedDate NoticeReason = "unresolved_date"
	ReasonPastDate       NoticeReason = "past_date"
	ReasonWeekend        NoticeReason = "weekend"
	ReasonNoSlots        NoticeReason = "no_slots"
)

// Notice é um resultado benigno da consulta de disponibilidade, mostrado ao paciente.
type Notice struct {
	Reason  NoticeReason
	Message string
}

type Availability struct {
	Date   time.Time
	Slots  []string
	Notice *Notice
}

func (a *Availability) DateString() string {
	if a.Date.IsZero() {
		return ""
	}
	return a.Date.Format(DateLayout)
}

func UnresolvedNotice(phrase string) *Notice {
	return &Notice{
		Reason:  ReasonUnresolvedDate,
		Message: fmt.Sprintf("A data '%s' não pôde ser compreendida. Poderia informar novamente?", phrase),
	}
}

func NoSlotsNotice(date time.Time) *Notice {
	return &Notice{
		Reason:  ReasonNoSlots,
		Message: fmt.Sprintf("Nenhum horário disponível encontrado para %s.", date.Format(DateLayout)),
	}
}

func RejectionNotice(r *DayRejection) *Notice {
	return &Notice{Reason: r.Reason, Message: r.Error()}
}

// FormatSlots formata o início dos horários como "15:04".
func FormatSlots(slots []Interval) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.Format(TimeLayout))
	}
	return out
}
