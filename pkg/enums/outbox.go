package enums

type OutboxEventType string

const (
	EventOrderPlaced        OutboxEventType = "order_placed"
	EventOrderStatusChanged OutboxEventType = "order_status_changed"
	EventDeliveryCompleted  OutboxEventType = "delivery_completed"
	EventTicketReplied      OutboxEventType = "ticket_replied"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderPlaced,
	EventOrderStatusChanged,
	EventDeliveryCompleted,
	EventTicketReplied,
}

func (t OutboxEventType) String() string { return string(t) }

func (t OutboxEventType) IsValid() bool { return contains(validOutboxEventTypes, t) }

func ParseOutboxEventType(value string) (OutboxEventType, error) {
	return parse(validOutboxEventTypes, value, "outbox event type")
}

type OutboxAggregateType string

const (
	AggregateOrder         OutboxAggregateType = "order"
	AggregateDeliveryTask  OutboxAggregateType = "delivery_task"
	AggregateSupportTicket OutboxAggregateType = "support_ticket"
)

var validOutboxAggregateTypes = []OutboxAggregateType{AggregateOrder, AggregateDeliveryTask, AggregateSupportTicket}

func (t OutboxAggregateType) String() string { return string(t) }

func (t OutboxAggregateType) IsValid() bool { return contains(validOutboxAggregateTypes, t) }

// DLQReason explains why an event stopped being retried.
type DLQReason string

const (
	DLQReasonMaxAttempts  DLQReason = "max_attempts"
	DLQReasonNonRetryable DLQReason = "non_retryable"
)

// NotificationType categorises feed entries.
type NotificationType string

const (
	NotificationOrderPlaced        NotificationType = "order_placed"
	NotificationOrderStatusChanged NotificationType = "order_status_changed"
	NotificationEarningCredited    NotificationType = "earning_credited"
	NotificationTicketReplied      NotificationType = "ticket_replied"
)
