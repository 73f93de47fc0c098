// Gray M2M Core - Device Management Client
//
// This is the main entry point for the Gray M2M Core client. It hosts
// the data model registry (Security, Portfolio and Clock objects),
// resolves secure transport configuration for the default server
// account, and periodically publishes resource notifications and Send
// batches over MQTT.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/gray-m2m-core/internal/connsec"
	"github.com/nerrad567/gray-m2m-core/internal/dm"
	"github.com/nerrad567/gray-m2m-core/internal/infrastructure/config"
	"github.com/nerrad567/gray-m2m-core/internal/infrastructure/database"
	"github.com/nerrad567/gray-m2m-core/internal/infrastructure/logging"
	"github.com/nerrad567/gray-m2m-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-m2m-core/internal/infrastructure/telemetry"
	"github.com/nerrad567/gray-m2m-core/internal/objects/clock"
	"github.com/nerrad567/gray-m2m-core/internal/objects/portfolio"
	"github.com/nerrad567/gray-m2m-core/internal/objects/security"
	"github.com/nerrad567/gray-m2m-core/internal/senml"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded.
	log := logging.Default()
	log.Info("starting Gray M2M Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings.
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Build the data model: registry plus the three hosted objects.
	registry := dm.NewRegistry()
	registry.SetLogger(log.With("component", "dm"))

	clockObj, err := clock.New(clock.SystemClock{})
	if err != nil {
		return fmt.Errorf("creating clock object: %w", err)
	}
	clockObj.SetLogger(log.With("component", "clock"))

	portfolioObj := portfolio.New()
	securityObj := security.New()

	// Restore bootstrapped Security instances from the store.
	securityRepo := security.NewSQLiteRepository(db.DB)
	stored, err := securityRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading security instances: %w", err)
	}
	if len(stored) > 0 {
		if err := securityObj.Restore(stored); err != nil {
			return fmt.Errorf("restoring security instances: %w", err)
		}
		log.Info("security instances restored", "count", len(stored))
	} else {
		log.Info("no stored security instances, starting unbootstrapped")
	}

	for _, obj := range []dm.Object{securityObj, portfolioObj, clockObj} {
		if err := registry.Register(obj); err != nil {
			return fmt.Errorf("registering object %d: %w", obj.OID(), err)
		}
	}
	log.Info("data model initialised", "objects", registry.OIDs())

	// Resolve the secure transport configuration for the default
	// server account, if one is bootstrapped.
	resolver := connsec.NewResolver(registry)
	resolver.SetLogger(log.With("component", "connsec"))
	if len(stored) > 0 {
		iid := dm.IID(cfg.Client.SecurityInstance)
		serverURI, transport, err := resolver.ServerURI(iid)
		if err != nil {
			return fmt.Errorf("resolving server uri: %w", err)
		}
		secCfg, err := resolver.Resolve(iid, transport)
		if err != nil {
			return fmt.Errorf("resolving transport security: %w", err)
		}
		log.Info("transport security resolved",
			"server_uri", serverURI.String(),
			"mode", secCfg.Mode.String(),
		)
	}

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var telemetryClient *telemetry.Client
	if cfg.InfluxDB.Enabled {
		telemetryClient, err = telemetry.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := telemetryClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		telemetryClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, telemetryClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	// Wire the outbound adapters and start the periodic loops.
	qos := byte(cfg.MQTT.QoS)
	var notifySink clock.NotifySink = mqtt.NewNotifySink(mqttClient, qos)
	var batchSender clock.Sender = mqtt.NewBatchSender(mqttClient, qos)
	if telemetryClient != nil {
		notifySink = &meteredNotifySink{inner: notifySink, metrics: telemetryClient}
		batchSender = &meteredSender{inner: batchSender, metrics: telemetryClient}
	}

	log.Info("initialisation complete",
		"notify_period", cfg.GetNotifyPeriod(),
		"send_period", cfg.GetSendPeriod(),
	)

	runLoops(ctx, cfg, clockObj, registry, notifySink, batchSender, log)

	log.Info("shutdown signal received, cleaning up")

	// Persist the current Security instances before the defer chain
	// tears down the infrastructure.
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := securityRepo.SaveAll(saveCtx, securityObj.Snapshot()); err != nil {
		log.Error("error saving security instances", "error", err)
	}

	log.Info("Gray M2M Core stopped")
	return nil
}

// runLoops drives the periodic notify sweeps and Send batches until
// the context is cancelled.
func runLoops(ctx context.Context, cfg *config.Config, clockObj *clock.Object,
	registry *dm.Registry, sink clock.NotifySink, sender clock.Sender,
	log *logging.Logger) {

	notifyTicker := time.NewTicker(cfg.GetNotifyPeriod())
	defer notifyTicker.Stop()
	sendTicker := time.NewTicker(cfg.GetSendPeriod())
	defer sendTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-notifyTicker.C:
			if err := clockObj.Notify(sink); err != nil {
				log.Warn("notify sweep failed", "error", err)
			}

		case <-sendTicker.C:
			// Builders are single-use; compile a fresh batch per tick.
			builder := &senmlBuilderAdapter{builder: senml.NewBatchBuilder(registry)}
			if err := clockObj.Send(builder, sender); err != nil {
				log.Warn("send batch failed", "error", err)
			}
		}
	}
}

// getConfigPath returns the configuration file path.
// Uses GRAYM2M_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYM2M_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// telemetryClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, telemetryClient *telemetry.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if telemetryClient != nil {
		if err := telemetryClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// senmlBuilderAdapter adapts *senml.BatchBuilder to the clock object's
// BatchBuilder interface; Compile's concrete *senml.Batch return type
// needs widening to the opaque batch type.
type senmlBuilderAdapter struct {
	builder *senml.BatchBuilder
}

func (a *senmlBuilderAdapter) AddCurrent(oid dm.OID, iid dm.IID, rid dm.RID) error {
	return a.builder.AddCurrent(oid, iid, rid)
}

func (a *senmlBuilderAdapter) Compile() (clock.Batch, error) {
	batch, err := a.builder.Compile()
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// meteredNotifySink decorates a notify sink with telemetry recording.
// Only successful deliveries are counted.
type meteredNotifySink struct {
	inner   clock.NotifySink
	metrics *telemetry.Client
}

func (s *meteredNotifySink) NotifyChanged(oid dm.OID, iid dm.IID, rid dm.RID) error {
	if err := s.inner.NotifyChanged(oid, iid, rid); err != nil {
		return err
	}
	s.metrics.RecordNotification(uint16(oid), uint16(iid), uint16(rid))
	return nil
}

// meteredSender decorates a batch sender with telemetry recording.
type meteredSender struct {
	inner   clock.Sender
	metrics *telemetry.Client
}

func (s *meteredSender) Send(ssid uint16, batch clock.Batch, done func(err error)) error {
	b, ok := batch.(*senml.Batch)
	if !ok {
		return errors.New("main: unexpected batch type")
	}
	return s.inner.Send(ssid, batch, func(err error) {
		if err == nil {
			s.metrics.RecordSend(ssid, b.Records(), len(b.Payload()))
		}
		if done != nil {
			done(err)
		}
	})
}
