package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID monta o id da consulta com o instante de criação, um token aleatório e
// a chave do paciente. O token garante ids distintos mesmo quando o paciente
// agenda duas vezes no mesmo tick do relógio.
func NewID(now time.Time, identityKey string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return now.Format("20060102150405") + "-" + token + "-" + identityKey
}

// SlotKey nomeia um horário do profissional para o lock.
func SlotKey(date, hm string) string {
	return date + "T" + hm
}
