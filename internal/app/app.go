// Package app builds the CRM component graph shared by the worker manager and
// the crmctl command.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realty-crm/internal/assignment"
	crmaws "realty-crm/internal/common/aws"
	"realty-crm/internal/common/camunda"
	"realty-crm/internal/common/config"
	"realty-crm/internal/common/database"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/common/whatsapp"
	"realty-crm/internal/compensation"
	"realty-crm/internal/jobreport"
	"realty-crm/internal/models"
	"realty-crm/internal/notification"
	"realty-crm/internal/revalidate"
	"realty-crm/internal/store/postgres"

	"github.com/segmentio/kafka-go"
)

// Options tunes how hard Build tries to reach its backing services.
type Options struct {
	ConnectAttempts int
	ConnectBackoff  time.Duration
	Source          string
}

// App holds every long-lived component. Fields for optional backends are nil
// when the backend is disabled.
type App struct {
	Config *config.Config
	Logger logger.Logger

	Postgres *database.PostgresClient
	Redis    *database.RedisClient
	Search   *database.ElasticsearchClient
	kafka    *kafka.Writer

	Store        *postgres.Store
	Revalidator  *revalidate.Fanout
	Dispatcher   *notification.Dispatcher
	Pool         *notification.Pool
	Orchestrator *assignment.Orchestrator
	JobReports   *jobreport.Lifecycle
	Compensation *compensation.Service
	Reminders    *notification.ReminderScanner
}

// Build connects to the configured backends and wires the domain services.
// On error everything opened so far is closed.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (_ *App, err error) {
	if opts.ConnectAttempts < 1 {
		opts.ConnectAttempts = 1
	}
	if opts.ConnectBackoff == 0 {
		opts.ConnectBackoff = 2 * time.Second
	}
	if opts.Source == "" {
		opts.Source = cfg.App.Name
	}

	a := &App{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	if err = a.connect(ctx, opts); err != nil {
		return nil, err
	}

	a.Store = postgres.New(a.Postgres.DB)
	a.Revalidator = revalidate.NewFanout(opts.Source, log, a.sinks()...)

	senders, err := a.senders(ctx)
	if err != nil {
		return nil, err
	}
	a.Dispatcher, err = notification.NewDispatcher(a.Store, senders, log)
	if err != nil {
		return nil, err
	}

	ncfg := cfg.Notifications
	a.Pool = notification.NewPool(a.Dispatcher, ncfg.QueueSize, ncfg.Workers, config.GetDuration(ncfg.DeliveryTimeout), log)

	a.Orchestrator = assignment.NewOrchestrator(a.Store, a.Pool, a.Revalidator, assignment.Config{
		AllowReassign:   cfg.Assignment.AllowReassign,
		DefaultPriority: models.Priority(cfg.Assignment.DefaultPriority),
		DefaultType:     cfg.Assignment.DefaultType,
	}, log)
	reportZone, err := cfg.JobReports.Location()
	if err != nil {
		return nil, err
	}
	a.JobReports = jobreport.NewLifecycle(a.Store, a.Pool, a.Revalidator, log).WithLocation(reportZone)

	var cache *compensation.RateCache
	if a.Redis != nil {
		cache = compensation.NewRateCache(a.Redis.Client, time.Duration(cfg.Salary.RateCacheTTL)*time.Second)
	}
	a.Compensation = compensation.NewService(a.Store, cache, a.Revalidator, log)

	a.Reminders = notification.NewReminderScanner(a.Store, a.Pool,
		time.Duration(ncfg.Reminders.LeadMinutes)*time.Minute,
		time.Duration(ncfg.Reminders.WindowMinutes)*time.Minute,
		log)

	return a, nil
}

func (a *App) connect(ctx context.Context, opts Options) error {
	cfg := a.Config

	err := camunda.RetryWithBackoff(ctx, func() error {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			_ = pg.Close()
			return err
		}
		a.Postgres = pg
		return nil
	}, opts.ConnectAttempts, opts.ConnectBackoff, a.Logger, "postgres connection")
	if err != nil {
		return err
	}
	a.Logger.Info("postgres connected", nil)

	if cfg.Database.Postgres.AutoMigrate {
		if err := database.NewMigrationService(cfg.Database.Postgres.GetURL(), a.Logger).Up(ctx); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	if cfg.Database.Redis.Address != "" {
		err = camunda.RetryWithBackoff(ctx, func() error {
			rc, err := database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			if err := rc.Ping(ctx); err != nil {
				_ = rc.Close()
				return err
			}
			a.Redis = rc
			return nil
		}, opts.ConnectAttempts, opts.ConnectBackoff, a.Logger, "redis connection")
		if err != nil {
			return err
		}
		a.Logger.Info("redis connected", nil)
	}

	if cfg.Revalidation.Search.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := es.Ping(ctx); err != nil {
			a.Logger.Warn("elasticsearch unreachable, search revalidation may fail", map[string]interface{}{"error": err.Error()})
		}
		a.Search = es
	}

	return nil
}

func (a *App) sinks() []revalidate.Sink {
	rcfg := a.Config.Revalidation
	var sinks []revalidate.Sink

	if rcfg.Redis.Enabled {
		if a.Redis == nil {
			a.Logger.Warn("redis revalidation enabled without a redis address", nil)
		} else {
			sinks = append(sinks, revalidate.NewRedisSink(a.Redis.Client, rcfg.Redis.Channel))
		}
	}
	if a.Search != nil {
		sinks = append(sinks, revalidate.NewSearchSink(a.Search.Client, rcfg.Search.Index))
	}
	if rcfg.Kafka.Enabled && len(rcfg.Kafka.Brokers) > 0 {
		a.kafka = revalidate.NewKafkaWriter(rcfg.Kafka.Brokers, rcfg.Kafka.Topic)
		sinks = append(sinks, revalidate.NewKafkaSink(a.kafka))
	}

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	a.Logger.Info("revalidation sinks configured", map[string]interface{}{"sinks": names})
	return sinks
}

func (a *App) senders(ctx context.Context) ([]notification.Sender, error) {
	ncfg := a.Config.Notifications
	var senders []notification.Sender

	if ncfg.WhatsApp.Enabled {
		wa, err := whatsapp.NewClient(whatsapp.Config{
			BaseURL:       ncfg.WhatsApp.BaseURL,
			APIToken:      ncfg.WhatsApp.APIToken,
			PhoneNumberID: ncfg.WhatsApp.PhoneNumber,
			Timeout:       config.GetDuration(ncfg.WhatsApp.Timeout),
		})
		if err != nil {
			a.Logger.Warn("whatsapp channel disabled", map[string]interface{}{"error": err.Error()})
		} else {
			senders = append(senders, notification.NewWhatsAppSender(wa, ncfg.DefaultCountryCode))
		}
	}

	if ncfg.Email.Enabled || ncfg.SMS.Enabled {
		awsCfg, err := crmaws.LoadConfig(ctx, a.Config.Integrations.AWS.Region)
		if err != nil {
			return nil, err
		}
		if ncfg.Email.Enabled {
			senders = append(senders, notification.NewEmailSender(crmaws.NewSESClient(awsCfg), ncfg.Email.FromEmail))
		}
		if ncfg.SMS.Enabled {
			senders = append(senders, notification.NewSMSSender(crmaws.NewSNSClient(awsCfg), ncfg.DefaultCountryCode, ncfg.SMS.SenderID))
		}
	}

	return senders, nil
}

// Ready checks the backends the workers cannot run without.
func (a *App) Ready(ctx context.Context) error {
	if err := a.Postgres.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close drains queued notifications and releases connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Pool != nil {
		if err := a.Pool.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("notification pool: %w", err))
		}
	}
	if a.kafka != nil {
		errs = append(errs, a.kafka.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.Postgres != nil {
		errs = append(errs, a.Postgres.Close())
	}
	return errors.Join(errs...)
}
