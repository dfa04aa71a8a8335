package handlers

import (
	"ledger-core/internal/domain/account"
	"ledger-core/internal/domain/recovery"
	"ledger-core/internal/domain/transfer"
	"ledger-core/internal/infrastructure/events"
	"ledger-core/internal/infrastructure/messaging"
	"ledger-core/internal/pages"
)

// HandlerDependencies is the surface the api layer needs out of the
// components.Container. Keeping it as an interface here, rather than
// importing components directly, avoids a handlers<->components import
// cycle.
type HandlerDependencies interface {
	Accounts() account.Service
	Transfers() *transfer.Coordinator
	Recovery() *recovery.Sweeper
	Pages() pages.Service
	EventPublisher() messaging.EventPublisher
	EventBroker() *events.Broker
}
