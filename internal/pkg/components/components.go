// Package components wires the application's singleton dependency graph:
// config, logging, the Mongo-backed store, the four domain services, and
// the HTTP server built on top of them. It follows the teacher's
// Container/sync.Once pattern, generalized from a single Postgres
// repository to the store-backed services the 2PC core runs on.
package components

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"ledger-core/internal/api/routes"
	"ledger-core/internal/config"
	"ledger-core/internal/domain/account"
	"ledger-core/internal/domain/recovery"
	"ledger-core/internal/domain/transfer"
	"ledger-core/internal/infrastructure/events"
	"ledger-core/internal/infrastructure/messaging"
	"ledger-core/internal/infrastructure/messaging/kafka"
	"ledger-core/internal/pages"
	"ledger-core/internal/pkg/logging"
	"ledger-core/internal/pkg/telemetry"
	"ledger-core/internal/store"
	"ledger-core/internal/store/memstore"
	"ledger-core/internal/store/mongostore"
	"ledger-core/internal/store/sequence"

	"github.com/gin-gonic/gin"
)

// Container holds every application component and satisfies
// handlers.HandlerDependencies for the API layer.
type Container struct {
	Config *config.Config
	Store  store.Store
	Router *gin.Engine
	Server *http.Server

	eventBroker     *events.Broker
	eventPublisher  messaging.EventPublisher
	accounts        account.Service
	transfers       *transfer.Coordinator
	recovery        *recovery.Sweeper
	pages           pages.Service
	collectorCancel context.CancelFunc
}

var (
	instance     *Container
	instanceOnce sync.Once
	instanceErr  error
)

// GetInstance returns the singleton container instance.
// Uses sync.Once to ensure it's only initialized once.
func GetInstance() (*Container, error) {
	instanceOnce.Do(func() {
		instance, instanceErr = newContainer()
	})
	return instance, instanceErr
}

// New creates and initializes all application components.
// For backward compatibility, this calls GetInstance.
func New() (*Container, error) {
	return GetInstance()
}

func newContainer() (*Container, error) {
	container := &Container{}

	if err := container.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	if err := container.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := container.initStore(); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if err := container.initEventBroker(); err != nil {
		return nil, fmt.Errorf("failed to initialize event broker: %w", err)
	}
	if err := container.initEventPublisher(); err != nil {
		return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	if err := container.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := container.initServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	logging.Info("All components initialized successfully", nil)
	return container, nil
}

func (c *Container) initConfig() error {
	c.Config = config.Load()
	return nil
}

func (c *Container) initLogger() error {
	logging.Init(c.Config)

	logging.Info("Logger initialized", map[string]interface{}{
		"level": c.Config.Logging.Level,
	})
	return nil
}

// initStore connects to MongoDB unless MONGO_URI is explicitly set to
// "memory", in which case it uses the in-memory store — handy for the
// dashboard and for ad-hoc local runs without a Mongo instance.
func (c *Container) initStore() error {
	if c.Config.Mongo.URI == "memory" {
		c.Store = memstore.New()
		logging.Info("Store initialized", map[string]interface{}{"type": "memory"})
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := mongostore.New(ctx, c.Config.Mongo.URI, c.Config.Mongo.Database)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	c.Store = db

	logging.Info("Store initialized", map[string]interface{}{
		"type":     "mongodb",
		"database": c.Config.Mongo.Database,
	})
	return nil
}

func (c *Container) initServices() error {
	ids := sequence.New(c.Store)

	c.accounts = account.New(c.Store, ids, warnf)
	c.transfers = transfer.New(c.Store, ids)
	c.recovery = recovery.New(c.Store, c.Config.Recovery.AgeThreshold, c.eventPublisher, warnf)
	c.pages = pages.New(c.Store, ids)

	logging.Info("Domain services initialized", map[string]interface{}{
		"recovery_age_threshold": c.Config.Recovery.AgeThreshold.String(),
	})
	return nil
}

// warnf adapts the printf-style callback the account and recovery
// services log through to the structured logging package.
func warnf(format string, args ...any) {
	logging.Warn(fmt.Sprintf(format, args...))
}

func (c *Container) initEventBroker() error {
	c.eventBroker = events.GetBroker()

	logging.Info("Event broker initialized", nil)
	return nil
}

func (c *Container) initEventPublisher() error {
	if !c.Config.Kafka.Enabled {
		logging.Info("Kafka disabled, using no-op event publisher", nil)
		c.eventPublisher = messaging.NewNoOpEventPublisher()
		return nil
	}

	kafkaConfig := kafka.NewConfig(c.Config.Kafka)

	publisher, err := messaging.NewKafkaEventPublisher(kafkaConfig)
	if err != nil {
		logging.Warn("Failed to initialize Kafka, using no-op event publisher", map[string]interface{}{
			"error": err.Error(),
		})
		c.eventPublisher = messaging.NewNoOpEventPublisher()
		return nil
	}

	c.eventPublisher = publisher
	logging.Info("Kafka event publisher initialized", map[string]interface{}{
		"brokers": kafkaConfig.Brokers,
	})
	return nil
}

func (c *Container) initServer() error {
	if os.Getenv("ENVIRONMENT") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	c.Router = gin.Default()
	routes.RegisterRoutes(c.Router, c.Config, c)

	c.Server = &http.Server{
		Addr:           c.Config.Server.Host + ":" + c.Config.Server.Port,
		Handler:        c.Router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	logging.Info("HTTP server configured", map[string]interface{}{
		"port": c.Config.Server.Port,
	})
	return nil
}

// Start begins serving HTTP requests and blocks until a shutdown signal
// arrives.
func (c *Container) Start() error {
	logging.Info("Starting HTTP server", map[string]interface{}{
		"address": c.Server.Addr,
	})

	collectorCtx, cancel := context.WithCancel(context.Background())
	c.collectorCancel = cancel
	go telemetry.StartRuntimeCollector(collectorCtx, 15*time.Second)

	go func() {
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Server failed to start", err, nil)
			os.Exit(1)
		}
	}()

	c.waitForShutdown()
	return nil
}

func (c *Container) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", err, nil)
	}

	logging.Info("Server shutdown complete", nil)
}

// Shutdown gracefully stops the HTTP server and the event publisher.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.collectorCancel != nil {
		c.collectorCancel()
	}

	if err := c.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if c.eventPublisher != nil {
		if err := c.eventPublisher.Close(); err != nil {
			logging.Error("Failed to close event publisher", err, nil)
		}
	}

	return nil
}

// Accounts returns the account service.
func (c *Container) Accounts() account.Service { return c.accounts }

// Transfers returns the transfer coordinator.
func (c *Container) Transfers() *transfer.Coordinator { return c.transfers }

// Recovery returns the recovery sweeper.
func (c *Container) Recovery() *recovery.Sweeper { return c.recovery }

// Pages returns the page tree service.
func (c *Container) Pages() pages.Service { return c.pages }

// EventPublisher returns the Kafka (or no-op) event publisher.
func (c *Container) EventPublisher() messaging.EventPublisher { return c.eventPublisher }

// EventBroker returns the SSE broadcast broker.
func (c *Container) EventBroker() *events.Broker { return c.eventBroker }

// GetConfig returns the configuration.
func (c *Container) GetConfig() *config.Config { return c.Config }

// GetRouter returns the Gin router.
func (c *Container) GetRouter() *gin.Engine { return c.Router }
