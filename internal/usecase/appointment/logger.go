package appointment

import (
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
)

func orDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return logging.Discard()
	}
	return l
}
