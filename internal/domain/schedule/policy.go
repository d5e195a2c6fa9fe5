package schedule

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Policy guarda as regras de atendimento da clínica: um profissional, uma
// janela diária e horários de duração fixa começando na hora cheia.
type Policy struct {
	Location     *time.Location
	StartHour    int
	EndHour      int
	SlotDuration time.Duration

	// Clock substitui time.Now, em geral nos testes.
	Clock func() time.Time
}

func DefaultPolicy() Policy {
	return Policy{
		Location:     timezone.Location(timezone.DefaultTimezone),
		StartHour:    10,
		EndHour:      17,
		SlotDuration: time.Hour,
	}
}

func (p Policy) loc() *time.Location {
	if p.Location == nil {
		return timezone.Location(timezone.DefaultTimezone)
	}
	return p.Location
}

// Now devolve o instante atual no timezone da clínica.
func (p Policy) Now() time.Time {
	if p.Clock != nil {
		return p.Clock().In(p.loc())
	}
	return time.Now().In(p.loc())
}

// Today é a meia-noite da data local corrente.
func (p Policy) Today() time.Time {
	return timezone.DateOf(p.Now(), p.loc())
}

// Date normaliza t para a meia-noite da sua data local.
func (p Policy) Date(t time.Time) time.Time {
	return timezone.DateOf(t, p.loc())
}

func (p Policy) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, p.loc())
}

func (p Policy) ParseDateTime(date, hm string) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+hm, p.loc())
}

func (p Policy) at(date time.Time, hour int) time.Time {
	d := p.Date(date)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, p.loc())
}

// Window é a janela de atendimento [start, end) em date.
func (p Policy) Window(date time.Time) Interval {
	return Interval{Start: p.at(date, p.StartHour), End: p.at(date, p.EndHour)}
}

// CheckDay diz se date aceita consultas. Devolve *DayRejection para datas
// passadas e fins de semana.
func (p Policy) CheckDay(date time.Time) error {
	d := p.Date(date)
	if d.Before(p.Today()) {
		return &DayRejection{Reason: ReasonPastDate, Date: d}
	}
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return &DayRejection{Reason: ReasonWeekend, Date: d}
	}
	return nil
}

// CandidateSlots lista um horário por hora cheia a partir de StartHour, em
// ordem crescente. Cada um dura SlotDuration; horário que terminaria depois do
// fechamento da janela não é oferecido.
func (p Policy) CandidateSlots(date time.Time) []Interval {
	if p.EndHour <= p.StartHour {
		return nil
	}
	window := p.Window(date)
	slots := make([]Interval, 0, p.EndHour-p.StartHour)
	for h := p.StartHour; h < p.EndHour; h++ {
		start := p.at(date, h)
		end := start.Add(p.SlotDuration)
		if end.After(window.End) {
			break
		}
		slots = append(slots, Interval{Start: start, End: end})
	}
	return slots
}

// IsCandidate diz se start é um dos horários oferecidos na sua data.
func (p Policy) IsCandidate(start time.Time) bool {
	for _, s := range p.CandidateSlots(start) {
		if s.Start.Equal(start) {
			return true
		}
	}
	return false
}

// DayRejection explica por que a data não é agendável.
type DayRejection struct {
	Reason NoticeReason
	Date   time.Time
}

func (r *DayRejection) Error() string {
	day := r.Date.Format(DateLayout)
	switch r.Reason {
	case ReasonPastDate:
		return fmt.Sprintf("A data %s é no passado. Não é possível agendar.", day)
	case ReasonWeekend:
		return fmt.Sprintf("A data %s é um %s. Não há atendimento neste dia.", day, WeekdayName(r.Date.Weekday()))
	}
	return fmt.Sprintf("A data %s não está disponível.", day)
}

// WeekdayName é o nome do dia usado nas mensagens ao paciente.
func WeekdayName(d time.Weekday) string {
	return [...]string{
		"Domingo", "Segunda-feira", "Terça-feira", "Quarta-feira",
		"Quinta-feira", "Sexta-feira", "Sábado",
	}[d]
}
