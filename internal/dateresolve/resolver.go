// Package dateresolve converte a frase de data do paciente numa data local da clínica.
package dateresolve

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/br"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ErrUnresolved: nenhuma data pôde ser lida da frase. É um pedido para
// reformular, não uma falha.
var ErrUnresolved = errors.New("date phrase not understood")

var (
	dayMonthYear = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})$`)
	dayMonth     = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})$`)
)

var relativeDays = map[string]int{
	"hoje":             0,
	"today":            0,
	"amanha":           1,
	"tomorrow":         1,
	"depois de amanha": 2,
}

var weekdays = map[string]time.Weekday{
	"domingo":       time.Sunday,
	"segunda":       time.Monday,
	"segunda-feira": time.Monday,
	"terca":         time.Tuesday,
	"terca-feira":   time.Tuesday,
	"quarta":        time.Wednesday,
	"quarta-feira":  time.Wednesday,
	"quinta":        time.Thursday,
	"quinta-feira":  time.Thursday,
	"sexta":         time.Friday,
	"sexta-feira":   time.Friday,
	"sabado":        time.Saturday,
	"sunday":        time.Sunday,
	"monday":        time.Monday,
	"tuesday":       time.Tuesday,
	"wednesday":     time.Wednesday,
	"thursday":      time.Thursday,
	"friday":        time.Friday,
	"saturday":      time.Saturday,
}

var fillerPrefixes = []string{"na proxima ", "proxima ", "no proximo ", "proximo ", "na ", "no ", "next ", "this ", "on "}

type Resolver struct {
	loc    *time.Location
	parser *when.Parser
}

func New(loc *time.Location) *Resolver {
	if loc == nil {
		loc = timezone.Location(timezone.DefaultTimezone)
	}

	w := when.New(nil)
	w.Add(br.All...)
	w.Add(en.All...)
	w.Add(common.All...)

	return &Resolver{loc: loc, parser: w}
}

// Resolve lê text relativo a ref e devolve a meia-noite da data resolvida no
// timezone da clínica. O formato ISO estrito é tentado primeiro; frases
// ambíguas preferem o futuro.
func (r *Resolver) Resolve(text string, ref time.Time) (time.Time, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return time.Time{}, ErrUnresolved
	}
	today := timezone.DateOf(ref, r.loc)

	if d, err := time.ParseInLocation("2006-01-02", raw, r.loc); err == nil {
		return d, nil
	}

	if dayMonthYear.MatchString(raw) || dayMonth.MatchString(raw) {
		if d, ok := r.numeric(raw, today); ok {
			return d, nil
		}
		return time.Time{}, ErrUnresolved
	}

	phrase := fold(raw)
	if d, ok := keyword(phrase, today); ok {
		return d, nil
	}

	res, err := r.parser.Parse(raw, ref.In(r.loc))
	if err != nil || res == nil {
		return time.Time{}, ErrUnresolved
	}
	return timezone.DateOf(res.Time, r.loc), nil
}

func (r *Resolver) numeric(raw string, today time.Time) (time.Time, bool) {
	if m := dayMonthYear.FindStringSubmatch(raw); m != nil {
		return r.build(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := dayMonth.FindStringSubmatch(raw); m != nil {
		d, ok := r.build(today.Year(), atoi(m[2]), atoi(m[1]))
		if !ok {
			return time.Time{}, false
		}
		if d.Before(today) {
			d, ok = r.build(today.Year()+1, atoi(m[2]), atoi(m[1]))
		}
		return d, ok
	}
	return time.Time{}, false
}

// build recusa datas que time.Date normalizaria em silêncio (31/02).
func (r *Resolver) build(year, month, day int) (time.Time, bool) {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, r.loc)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func keyword(phrase string, today time.Time) (time.Time, bool) {
	if n, ok := relativeDays[phrase]; ok {
		return today.AddDate(0, 0, n), true
	}

	for _, p := range fillerPrefixes {
		phrase = strings.TrimPrefix(phrase, p)
	}
	if wd, ok := weekdays[phrase]; ok {
		ahead := (int(wd) - int(today.Weekday()) + 7) % 7
		return today.AddDate(0, 0, ahead), true
	}
	return time.Time{}, false
}

// fold passa para minúsculas e tira acentos: "Amanhã" e "amanha" batem.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
