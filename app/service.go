package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MrSiJo/plugtrack/api/blendapi"
	"github.com/MrSiJo/plugtrack/api/events"
	"github.com/MrSiJo/plugtrack/api/vehicles"
	"github.com/MrSiJo/plugtrack/config"
	"github.com/MrSiJo/plugtrack/core/hints"
	coremetrics "github.com/MrSiJo/plugtrack/core/metrics"
	"github.com/MrSiJo/plugtrack/core/reminder"
	corestore "github.com/MrSiJo/plugtrack/core/store"
	"github.com/MrSiJo/plugtrack/infra/logger"
	"github.com/MrSiJo/plugtrack/infra/metrics"
	"github.com/MrSiJo/plugtrack/infra/notify"
	"github.com/MrSiJo/plugtrack/infra/store"
)

// Service wires the engines to the store and the API surface.
type Service struct {
	Store    corestore.Store
	Engine   *coremetrics.Engine
	Hints    *hints.Engine
	Reminder *reminder.Engine
	Notifier notify.Notifier

	cfg   *config.Config
	log   logger.Logger
	close func()
}

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	st, closeStore, err := newStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken,
			cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	engine := coremetrics.NewEngine(st, cfg.Engine, logger.New("metrics"), sink)
	remEngine := reminder.NewEngine(st, cfg.Reminder, logger.New("reminder"))
	hintEngine := hints.NewEngine(st, cfg.Hints, remEngine, logger.New("hints"))

	var notifier notify.Notifier = notify.NopNotifier{}
	var closeNotify func()
	if cfg.Notify.Enabled {
		n, err := notify.NewMQTTNotifier(cfg.Notify)
		if err != nil {
			return nil, fmt.Errorf("notifier: %w", err)
		}
		notifier = n
		closeNotify = n.Disconnect
	}

	svc := &Service{
		Store:    st,
		Engine:   engine,
		Hints:    hintEngine,
		Reminder: remEngine,
		Notifier: notifier,
		cfg:      cfg,
		log:      logg,
	}
	svc.close = func() {
		if closeNotify != nil {
			closeNotify()
		}
		if closeStore != nil {
			closeStore()
		}
	}
	return svc, nil
}

func newStore(ctx context.Context, cfg store.Config) (corestore.Store, func(), error) {
	switch cfg.Backend {
	case store.BackendPostgres:
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return store.NewMemoryStore(), nil, nil
	}
}

// Handler builds the API routing table.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /api/events/{id}/metrics", events.NewMetricsHandler(s.Engine))
	mux.Handle("GET /api/events/{id}/hints", events.NewHintsHandler(s.Hints))
	mux.Handle("GET /api/vehicles/{id}/summary", vehicles.NewSummaryHandler(s.Engine))
	mux.Handle("GET /api/vehicles/{id}/reminder", vehicles.NewReminderHandler(s.Reminder))
	mux.Handle("GET /api/reminders", vehicles.NewRemindersHandler(s.Reminder))
	mux.Handle("POST /api/blend", blendapi.NewSimulateHandler(s.cfg.Blend))
	return mux
}

// Run starts the API server and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()
	s.log.Infof("API listening on %s", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// NotifyReminders evaluates every vehicle and publishes actionable
// statuses through the configured notifier.
func (s *Service) NotifyReminders(ctx context.Context, now time.Time) ([]reminder.Status, error) {
	statuses, err := s.Reminder.EvaluateAll(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, st := range statuses {
		if st.Urgency == reminder.NotDue {
			continue
		}
		veh, err := s.Store.Vehicle(ctx, st.VehicleID)
		if err != nil {
			s.log.Errorf("load vehicle %d: %v", st.VehicleID, err)
			continue
		}
		if err := s.Notifier.PublishReminder(veh, st); err != nil {
			s.log.Errorf("publish reminder for vehicle %d: %v", st.VehicleID, err)
		}
	}
	return statuses, nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
