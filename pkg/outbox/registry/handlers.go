package registry

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Handler consumes a resolved event inside the publisher's batch
// transaction. Returning NonRetryableError dead-letters the row.
type Handler interface {
	Name() string
	Handle(ctx context.Context, tx *gorm.DB, event *ResolvedEvent) error
}

// HandlerFunc adapts a function into a named Handler.
type HandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, tx *gorm.DB, event *ResolvedEvent) error
}

func (h HandlerFunc) Name() string { return h.HandlerName }

func (h HandlerFunc) Handle(ctx context.Context, tx *gorm.DB, event *ResolvedEvent) error {
	return h.Fn(ctx, tx, event)
}

// Router fans an event type out to its handlers in registration order.
type Router struct {
	routes map[enums.OutboxEventType][]Handler
}

func NewRouter() *Router {
	return &Router{routes: make(map[enums.OutboxEventType][]Handler)}
}

func (r *Router) Register(eventType enums.OutboxEventType, handlers ...Handler) {
	for _, h := range handlers {
		if h != nil {
			r.routes[eventType] = append(r.routes[eventType], h)
		}
	}
}

func (r *Router) Handlers(eventType enums.OutboxEventType) []Handler {
	return r.routes[eventType]
}
