package appointment

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/patient"
)

type PatientStatus struct {
	IdentityKey string
	Found       bool
	Name        string
}

type CheckPatient struct {
	repo domain.Repository
}

func NewCheckPatient(repo domain.Repository) *CheckPatient {
	return &CheckPatient{repo: repo}
}

func (uc *CheckPatient) Execute(
	ctx context.Context,
	identity string,
) (*PatientStatus, error) {

	key := patient.NormalizeKey(identity)
	out := &PatientStatus{IdentityKey: key}
	if !patient.ValidKey(key) {
		return out, nil
	}

	p, err := uc.repo.FindPatient(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return out, nil
		}
		return nil, err
	}

	out.Found = true
	out.Name = p.FullName
	return out, nil
}
