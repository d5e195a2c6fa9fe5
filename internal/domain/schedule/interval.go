package schedule

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/calendar"
)

// Interval é um intervalo semiaberto [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

func (i Interval) In(loc *time.Location) Interval {
	return Interval{Start: i.Start.In(loc), End: i.End.In(loc)}
}

// BusyIntervals converte eventos da agenda em intervalos ocupados dentro de
// window. Evento com horário mantém seus limites no timezone da janela; evento
// de dia inteiro bloqueia a janela toda.
func BusyIntervals(events []calendar.Event, window Interval) []Interval {
	loc := window.Start.Location()
	busy := make([]Interval, 0, len(events))
	for _, ev := range events {
		if ev.AllDay {
			busy = append(busy, window)
			continue
		}
		busy = append(busy, Interval{Start: ev.Start, End: ev.End}.In(loc))
	}
	return busy
}

// FreeSlots mantém os candidatos que não cruzam nenhum intervalo ocupado, na
// ordem original.
func FreeSlots(candidates, busy []Interval) []Interval {
	free := make([]Interval, 0, len(candidates))
	for _, slot := range candidates {
		taken := false
		for _, b := range busy {
			if slot.Overlaps(b) {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, slot)
		}
	}
	return free
}
