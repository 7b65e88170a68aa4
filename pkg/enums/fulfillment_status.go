package enums

// VendorOrderStatus is the vendor-facing sub-state of an order.
type VendorOrderStatus string

const (
	VendorOrderPending   VendorOrderStatus = "pending"
	VendorOrderAccepted  VendorOrderStatus = "accepted"
	VendorOrderPreparing VendorOrderStatus = "preparing"
	VendorOrderReady     VendorOrderStatus = "ready"
	VendorOrderCancelled VendorOrderStatus = "cancelled"
)

var validVendorOrderStatuses = []VendorOrderStatus{
	VendorOrderPending,
	VendorOrderAccepted,
	VendorOrderPreparing,
	VendorOrderReady,
	VendorOrderCancelled,
}

// OpenVendorOrderStatuses count as pending work on the vendor dashboard.
var OpenVendorOrderStatuses = []VendorOrderStatus{VendorOrderPending, VendorOrderAccepted, VendorOrderPreparing}

var vendorSubOrderTransitions = transitions[VendorOrderStatus]{
	VendorOrderPending:   {VendorOrderAccepted, VendorOrderCancelled},
	VendorOrderAccepted:  {VendorOrderPreparing, VendorOrderReady, VendorOrderCancelled},
	VendorOrderPreparing: {VendorOrderReady, VendorOrderCancelled},
}

func (s VendorOrderStatus) String() string { return string(s) }

func (s VendorOrderStatus) IsValid() bool { return contains(validVendorOrderStatuses, s) }

func (s VendorOrderStatus) CanTransitionTo(next VendorOrderStatus) bool {
	return vendorSubOrderTransitions.allows(s, next)
}

func ParseVendorOrderStatus(value string) (VendorOrderStatus, error) {
	return parse(validVendorOrderStatuses, value, "vendor order status")
}

// TaskStatus is the state of a delivery task.
type TaskStatus string

const (
	TaskAssigned  TaskStatus = "assigned"
	TaskAccepted  TaskStatus = "accepted"
	TaskPickedUp  TaskStatus = "picked_up"
	TaskOnTheWay  TaskStatus = "on_the_way"
	TaskDelivered TaskStatus = "delivered"
	TaskCancelled TaskStatus = "cancelled"
	TaskFailed    TaskStatus = "failed"
)

var validTaskStatuses = []TaskStatus{
	TaskAssigned,
	TaskAccepted,
	TaskPickedUp,
	TaskOnTheWay,
	TaskDelivered,
	TaskCancelled,
	TaskFailed,
}

// ActiveTaskStatuses are tasks a partner is currently working.
var ActiveTaskStatuses = []TaskStatus{TaskAccepted, TaskPickedUp, TaskOnTheWay}

var taskTransitions = transitions[TaskStatus]{
	TaskAccepted: {TaskPickedUp, TaskOnTheWay, TaskDelivered, TaskCancelled, TaskFailed},
	TaskPickedUp: {TaskOnTheWay, TaskDelivered, TaskCancelled, TaskFailed},
	TaskOnTheWay: {TaskDelivered, TaskCancelled, TaskFailed},
}

func (s TaskStatus) String() string { return string(s) }

func (s TaskStatus) IsValid() bool { return contains(validTaskStatuses, s) }

func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	return taskTransitions.allows(s, next)
}

// IsFinished reports whether the task stamps completed_at.
func (s TaskStatus) IsFinished() bool {
	return s == TaskDelivered || s == TaskCancelled || s == TaskFailed
}

// ReleasesOrder reports whether the order goes back to the pool.
func (s TaskStatus) ReleasesOrder() bool {
	return s == TaskCancelled || s == TaskFailed
}

func ParseTaskStatus(value string) (TaskStatus, error) {
	return parse(validTaskStatuses, value, "task status")
}
