package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dateresolve"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/gcal"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/redislock"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/s3journal"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/tools"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

// App guarda as dependências de vida longa do processo.
type App struct {
	Config   *config.Config
	Log      *logrus.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Audit    *audit.Dispatcher
	Policy   schedule.Policy
	Tools    *tools.Dispatcher
}

func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	// ======================================================
	// Metrics
	// ======================================================
	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = metrics.New(app.Registry)

	// ======================================================
	// Database + audit
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	app.DB = db
	log.Info("database connected")

	auditLogger := audit.New(db)
	app.Audit = audit.NewDispatcher(auditLogger, log.WithField("component", "audit"))

	// ======================================================
	// Calendar
	// ======================================================
	app.Policy = schedule.Policy{
		Location:     timezone.Location(cfg.Timezone),
		StartHour:    cfg.StartHour,
		EndHour:      cfg.EndHour,
		SlotDuration: cfg.SlotDuration(),
	}

	opts, err := gcal.CredentialOptions(ctx, cfg.CredentialsFile, cfg.TokenFile)
	if err != nil {
		app.Close()
		return nil, err
	}
	cal, err := gcal.New(ctx, cfg.CalendarID, app.Policy.Location, opts...)
	if err != nil {
		app.Close()
		return nil, err
	}

	// ======================================================
	// Booking guard + reconciliation
	// ======================================================
	var locker domain.SlotLocker
	if cfg.RedisAddr != "" {
		client, err := redislock.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Redis = client
		locker = redislock.NewSlotLocker(client, cfg.SlotLockTTL)
		log.Info("redis slot lock enabled")
	}

	orphans := []domain.OrphanRecorder{auditLogger}
	if cfg.ReconcileBucket != "" {
		s3c := s3journal.NewS3Client(cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
		orphans = append(orphans, s3journal.New(s3c, cfg.ReconcileBucket, log.WithField("component", "s3journal")))
		log.WithField("bucket", cfg.ReconcileBucket).Info("orphan journal enabled")
	}

	app.Tools = buildTools(app, infraRepo.NewAppointmentGormRepository(db), cal, locker, orphans)
	return app, nil
}

func buildTools(
	app *App,
	repo domain.Repository,
	cal calendar.Calendar,
	locker domain.SlotLocker,
	orphans []domain.OrphanRecorder,
) *tools.Dispatcher {

	cfg := app.Config
	log := app.Log.WithField("component", "scheduling")

	avail := ucAppointment.NewGetAvailability(
		cal,
		app.Policy,
		dateresolve.New(app.Policy.Location),
		log,
		app.Metrics,
	)

	book := ucAppointment.NewBookAppointment(ucAppointment.BookAppointmentDeps{
		Repo:         repo,
		Calendar:     cal,
		Availability: avail,
		Locker:       locker,
		Orphans:      orphans,
		Audit:        app.Audit,
		Log:          log,
		Metrics:      app.Metrics,
	}, ucAppointment.BookOptions{
		RecheckSlot:      cfg.RecheckSlotOnBook,
		RequireBirthDate: cfg.RequireBirthDate,
	})

	cancel := ucAppointment.NewCancelAppointment(
		repo,
		cal,
		app.Policy,
		app.Audit,
		log,
		app.Metrics,
		cfg.CancelRequiresOwner,
	)

	return tools.NewDispatcher(tools.UseCases{
		CheckPatient: ucAppointment.NewCheckPatient(repo),
		Availability: avail,
		Book:         book,
		ListUpcoming: ucAppointment.NewListUpcoming(repo, app.Policy),
		Cancel:       cancel,
	}, validators.New(cfg.ValidateEmailDomain), app.Log.WithField("component", "tools"), app.Metrics)
}

// Close esvazia a fila de auditoria e libera as conexões.
func (app *App) Close() {
	app.Audit.Close()

	if app.Redis != nil {
		_ = app.Redis.Close()
	}
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func (app *App) String() string {
	return fmt.Sprintf("clinic-scheduler tz=%s window=%02d-%02d", app.Policy.Location, app.Policy.StartHour, app.Policy.EndHour)
}
