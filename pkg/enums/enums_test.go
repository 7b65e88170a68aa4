package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("on_the_way")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusOnTheWay, status)

	_, err = ParseOrderStatus("shipped")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"shipped"`)
}

func TestCanTransitionOrder(t *testing.T) {
	cases := []struct {
		name  string
		actor ActorType
		from  OrderStatus
		to    OrderStatus
		want  bool
	}{
		{"admin confirms", ActorAdmin, OrderStatusPending, OrderStatusConfirmed, true},
		{"admin cannot reopen delivered", ActorAdmin, OrderStatusDelivered, OrderStatusPending, false},
		{"admin cannot revive cancelled", ActorAdmin, OrderStatusCancelled, OrderStatusConfirmed, false},
		{"customer cancels pending", ActorCustomer, OrderStatusPending, OrderStatusCancelled, true},
		{"customer cannot cancel processing", ActorCustomer, OrderStatusProcessing, OrderStatusCancelled, false},
		{"customer cannot confirm", ActorCustomer, OrderStatusPending, OrderStatusConfirmed, false},
		{"vendor marks ready", ActorVendor, OrderStatusConfirmed, OrderStatusReady, true},
		{"vendor cannot deliver", ActorVendor, OrderStatusReady, OrderStatusDelivered, false},
		{"delivery picks up", ActorDelivery, OrderStatusReady, OrderStatusPickedUp, true},
		{"delivery releases", ActorDelivery, OrderStatusOnTheWay, OrderStatusReady, true},
		{"delivery cannot confirm", ActorDelivery, OrderStatusPending, OrderStatusConfirmed, false},
		{"unknown actor", ActorType("robot"), OrderStatusPending, OrderStatusConfirmed, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransitionOrder(tc.actor, tc.from, tc.to))
		})
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, status := range validOrderStatuses {
		if !status.IsTerminal() {
			continue
		}
		for _, target := range validOrderStatuses {
			for _, actor := range validActorTypes {
				assert.False(t, CanTransitionOrder(actor, status, target), "%s: %s -> %s", actor, status, target)
			}
		}
	}
}

func TestActorTablesAreSubsetsOfAdmin(t *testing.T) {
	for _, table := range []transitions[OrderStatus]{customerOrderTransitions, vendorOrderTransitions, deliveryOrderTransitions} {
		for from, targets := range table {
			for _, to := range targets {
				assert.True(t, adminOrderTransitions.allows(from, to), "%s -> %s", from, to)
			}
		}
	}
}

func TestVendorOrderTransitions(t *testing.T) {
	assert.True(t, VendorOrderPending.CanTransitionTo(VendorOrderAccepted))
	assert.True(t, VendorOrderAccepted.CanTransitionTo(VendorOrderReady))
	assert.False(t, VendorOrderPending.CanTransitionTo(VendorOrderReady))
	assert.False(t, VendorOrderReady.CanTransitionTo(VendorOrderCancelled))
	assert.False(t, VendorOrderCancelled.CanTransitionTo(VendorOrderPending))
}

func TestTaskTransitions(t *testing.T) {
	assert.True(t, TaskAccepted.CanTransitionTo(TaskDelivered))
	assert.False(t, TaskAssigned.CanTransitionTo(TaskDelivered))
	assert.False(t, TaskDelivered.CanTransitionTo(TaskOnTheWay))
	assert.True(t, TaskFailed.IsFinished())
	assert.True(t, TaskCancelled.ReleasesOrder())
	assert.False(t, TaskDelivered.ReleasesOrder())
}

func TestPaymentMethodInitialStatus(t *testing.T) {
	assert.Equal(t, PaymentStatusPending, PaymentMethodCOD.InitialPaymentStatus())
	assert.Equal(t, PaymentStatusPaid, PaymentMethodCard.InitialPaymentStatus())
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, RoleCustomer.UsesOTP())
	assert.False(t, RoleAdmin.UsesOTP())
	assert.Equal(t, ActorDelivery, ActorFor(RoleDelivery))
	assert.Equal(t, ActorSystem, ActorFor(Role("")))
	_, err := ParseRole("root")
	assert.Error(t, err)
	assert.Equal(t, []string{"admin", "vendor", "customer", "delivery"}, Values(validRoles))
}
