package enums

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

var validTicketStatuses = []TicketStatus{TicketOpen, TicketInProgress, TicketResolved, TicketClosed}

func (s TicketStatus) String() string { return string(s) }

func (s TicketStatus) IsValid() bool { return contains(validTicketStatuses, s) }

func ParseTicketStatus(value string) (TicketStatus, error) {
	return parse(validTicketStatuses, value, "ticket status")
}

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

var validTicketPriorities = []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p TicketPriority) IsValid() bool { return contains(validTicketPriorities, p) }

func ParseTicketPriority(value string) (TicketPriority, error) {
	return parse(validTicketPriorities, value, "ticket priority")
}

type TicketCategory string

const (
	TicketCategoryOrder    TicketCategory = "order"
	TicketCategoryPayment  TicketCategory = "payment"
	TicketCategoryDelivery TicketCategory = "delivery"
	TicketCategoryAccount  TicketCategory = "account"
	TicketCategoryOther    TicketCategory = "other"
)

var validTicketCategories = []TicketCategory{
	TicketCategoryOrder,
	TicketCategoryPayment,
	TicketCategoryDelivery,
	TicketCategoryAccount,
	TicketCategoryOther,
}

func (c TicketCategory) IsValid() bool { return contains(validTicketCategories, c) }

func ParseTicketCategory(value string) (TicketCategory, error) {
	return parse(validTicketCategories, value, "ticket category")
}

// AuthorType marks who wrote a ticket reply.
type AuthorType string

const (
	AuthorAdmin    AuthorType = "admin"
	AuthorCustomer AuthorType = "customer"
)
