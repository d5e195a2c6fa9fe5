package dateresolve

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

func newTestResolver() (*Resolver, time.Time) {
	loc := timezone.Location(timezone.DefaultTimezone)
	// segunda-feira 2026-10-19, 09:30 local
	return New(loc), time.Date(2026, 10, 19, 9, 30, 0, 0, loc)
}

func TestResolveStructuredFormats(t *testing.T) {
	r, ref := newTestResolver()

	tests := []struct {
		in   string
		want string
	}{
		{"2026-10-21", "2026-10-21"},
		{" 2026-12-01 ", "2026-12-01"},
		{"21/10/2026", "2026-10-21"},
		{"5/11", "2026-11-05"},
		{"10/01", "2027-01-10"},
		{"19/10", "2026-10-19"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := r.Resolve(tt.in, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, 0, got.Hour())
		})
	}
}

func TestResolveKeywordsPreferFuture(t *testing.T) {
	r, ref := newTestResolver()

	tests := []struct {
		in   string
		want string
	}{
		{"hoje", "2026-10-19"},
		{"Amanhã", "2026-10-20"},
		{"depois de amanhã", "2026-10-21"},
		{"tomorrow", "2026-10-20"},
		{"quarta", "2026-10-21"},
		{"Quarta-feira", "2026-10-21"},
		{"na sexta", "2026-10-23"},
		{"próxima terça", "2026-10-20"},
		{"segunda", "2026-10-19"},
		{"Sunday", "2026-10-25"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := r.Resolve(tt.in, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestResolveRejectsImpossibleDates(t *testing.T) {
	r, ref := newTestResolver()

	for _, in := range []string{"31/02/2026", "", "   "} {
		_, err := r.Resolve(in, ref)
		assert.True(t, errors.Is(err, ErrUnresolved), in)
	}
}

func TestResolveGibberishIsUnresolved(t *testing.T) {
	r, ref := newTestResolver()

	_, err := r.Resolve("xyzzy plugh", ref)
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "depois de amanha", fold("  Depois  de AMANHÃ "))
	assert.Equal(t, "terca-feira", fold("Terça-feira"))
}
