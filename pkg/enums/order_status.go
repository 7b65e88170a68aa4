package enums

// OrderStatus is the lifecycle state of a per-vendor order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusPickedUp   OrderStatus = "picked_up"
	OrderStatusOnTheWay   OrderStatus = "on_the_way"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRejected   OrderStatus = "rejected"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusReady,
	OrderStatusPickedUp,
	OrderStatusOnTheWay,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRejected,
}

// OngoingOrderStatuses are the states a customer sees under "ongoing".
var OngoingOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusReady,
	OrderStatusPickedUp,
	OrderStatusOnTheWay,
}

// ActiveVendorOrderStatuses block product deletion.
var ActiveVendorOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
}

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) IsValid() bool { return contains(validOrderStatuses, s) }

// IsTerminal reports whether no actor may move the order further.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusRejected
}

// RestoresStock reports whether entering s gives reserved stock back.
func (s OrderStatus) RestoresStock() bool {
	return s == OrderStatusCancelled || s == OrderStatusRejected
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	return parse(validOrderStatuses, value, "order status")
}

var adminOrderTransitions = transitions[OrderStatus]{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusProcessing, OrderStatusReady, OrderStatusCancelled, OrderStatusRejected},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusReady, OrderStatusCancelled, OrderStatusRejected},
	OrderStatusProcessing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:      {OrderStatusPickedUp, OrderStatusCancelled},
	OrderStatusPickedUp:   {OrderStatusOnTheWay, OrderStatusDelivered, OrderStatusReady},
	OrderStatusOnTheWay:   {OrderStatusDelivered, OrderStatusReady},
}

var customerOrderTransitions = transitions[OrderStatus]{
	OrderStatusPending:   {OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusCancelled},
}

var vendorOrderTransitions = transitions[OrderStatus]{
	OrderStatusPending:    {OrderStatusReady},
	OrderStatusConfirmed:  {OrderStatusReady},
	OrderStatusProcessing: {OrderStatusReady},
}

var deliveryOrderTransitions = transitions[OrderStatus]{
	OrderStatusReady:    {OrderStatusPickedUp},
	OrderStatusPickedUp: {OrderStatusOnTheWay, OrderStatusDelivered, OrderStatusReady},
	OrderStatusOnTheWay: {OrderStatusDelivered, OrderStatusReady},
}

// CanTransitionOrder reports whether actor may move an order from one status
// to another. System transitions use the admin table.
func CanTransitionOrder(actor ActorType, from, to OrderStatus) bool {
	switch actor {
	case ActorAdmin, ActorSystem:
		return adminOrderTransitions.allows(from, to)
	case ActorCustomer:
		return customerOrderTransitions.allows(from, to)
	case ActorVendor:
		return vendorOrderTransitions.allows(from, to)
	case ActorDelivery:
		return deliveryOrderTransitions.allows(from, to)
	default:
		return false
	}
}
