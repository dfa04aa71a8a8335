// Package testenv builds an in-memory-backed router for exercising the API
// layer end to end, the way the teacher's own integration suite builds a
// router against a real database. Here the store is memstore instead of a
// testcontainer, since the whole point of the 2PC state machine is that it
// doesn't care which store.Store backs it.
package testenv

import (
	"sync"

	"ledger-core/internal/api/routes"
	"ledger-core/internal/config"
	"ledger-core/internal/domain/account"
	"ledger-core/internal/domain/recovery"
	"ledger-core/internal/domain/transfer"
	"ledger-core/internal/infrastructure/events"
	"ledger-core/internal/infrastructure/messaging"
	"ledger-core/internal/pages"
	"ledger-core/internal/store"
	"ledger-core/internal/store/memstore"
	"ledger-core/internal/store/sequence"

	"github.com/gin-gonic/gin"
)

var ginModeOnce sync.Once

// Container is the lightweight HandlerDependencies implementation the test
// router is wired against.
type Container struct {
	store     store.Store
	accounts  account.Service
	transfers *transfer.Coordinator
	recovery  *recovery.Sweeper
	pages     pages.Service
	publisher messaging.EventPublisher
	broker    *events.Broker
}

func (c *Container) Accounts() account.Service               { return c.accounts }
func (c *Container) Transfers() *transfer.Coordinator         { return c.transfers }
func (c *Container) Recovery() *recovery.Sweeper              { return c.recovery }
func (c *Container) Pages() pages.Service                     { return c.pages }
func (c *Container) EventPublisher() messaging.EventPublisher { return c.publisher }
func (c *Container) EventBroker() *events.Broker              { return c.broker }

func noopWarn(string, ...any) {}

// NewContainer builds a fresh Container over a clean memstore, so each test
// gets isolated state instead of sharing a singleton across the package.
func NewContainer() *Container {
	db := memstore.New()
	ids := sequence.New(db)
	return &Container{
		store:     db,
		accounts:  account.New(db, ids, noopWarn),
		transfers: transfer.New(db, ids),
		recovery:  recovery.New(db, 0, nil, noopWarn),
		pages:     pages.New(db, ids),
		publisher: messaging.NewNoOpEventPublisher(),
		broker:    events.NewBroker(),
	}
}

// SetupRouter wires a fresh Container into a Gin engine with the same
// routes and middleware as the production server.
func SetupRouter() (*gin.Engine, *Container) {
	ginModeOnce.Do(func() { gin.SetMode(gin.TestMode) })

	cfg := &config.Config{
		CORS: config.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"*"},
		},
	}

	container := NewContainer()
	router := gin.New()
	routes.RegisterRoutes(router, cfg, container)
	return router, container
}
