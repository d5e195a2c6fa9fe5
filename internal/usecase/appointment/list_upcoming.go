package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/patient"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ListUpcoming struct {
	repo   domain.Repository
	policy schedule.Policy
}

func NewListUpcoming(repo domain.Repository, policy schedule.Policy) *ListUpcoming {
	return &ListUpcoming{repo: repo, policy: policy}
}

// Execute lista as consultas agendadas do paciente a partir de hoje, da mais
// próxima para a mais distante.
func (uc *ListUpcoming) Execute(
	ctx context.Context,
	identity string,
) ([]models.Appointment, error) {

	key := patient.NormalizeKey(identity)
	if !patient.ValidKey(key) {
		return []models.Appointment{}, nil
	}

	today := uc.policy.Today().Format(schedule.DateLayout)
	return uc.repo.ListFutureAppointments(ctx, key, today)
}
