package registry

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

func TestRouterKeepsRegistrationOrder(t *testing.T) {
	router := NewRouter()
	var calls []string
	record := func(name string) Handler {
		return HandlerFunc{HandlerName: name, Fn: func(context.Context, *gorm.DB, *ResolvedEvent) error {
			calls = append(calls, name)
			return nil
		}}
	}
	router.Register(enums.EventDeliveryCompleted, record("earnings"), nil, record("notifications"))

	handlers := router.Handlers(enums.EventDeliveryCompleted)
	if len(handlers) != 2 {
		t.Fatalf("expected 2 handlers, got %d", len(handlers))
	}
	for _, h := range handlers {
		if err := h.Handle(context.Background(), nil, &ResolvedEvent{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls[0] != "earnings" || calls[1] != "notifications" {
		t.Fatalf("unexpected order %v", calls)
	}
	if len(router.Handlers(enums.EventTicketReplied)) != 0 {
		t.Fatalf("unregistered type must have no handlers")
	}
}
