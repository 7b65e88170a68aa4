package enums

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
)

var validPaymentMethods = []PaymentMethod{PaymentMethodCOD, PaymentMethodOnline, PaymentMethodCard, PaymentMethodWallet}

func (m PaymentMethod) String() string { return string(m) }

func (m PaymentMethod) IsValid() bool { return contains(validPaymentMethods, m) }

// InitialPaymentStatus is pending for cash on delivery. Other methods are
// treated as captured at checkout.
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == PaymentMethodCOD {
		return PaymentStatusPending
	}
	return PaymentStatusPaid
}

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	return parse(validPaymentMethods, value, "payment method")
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var validPaymentStatuses = []PaymentStatus{PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded}

func (s PaymentStatus) String() string { return string(s) }

func (s PaymentStatus) IsValid() bool { return contains(validPaymentStatuses, s) }

func ParsePaymentStatus(value string) (PaymentStatus, error) {
	return parse(validPaymentStatuses, value, "payment status")
}

// EarningStatus tracks payout of partner and vendor earnings.
type EarningStatus string

const (
	EarningPending EarningStatus = "pending"
	EarningPaid    EarningStatus = "paid"
)

var validEarningStatuses = []EarningStatus{EarningPending, EarningPaid}

func (s EarningStatus) IsValid() bool { return contains(validEarningStatuses, s) }

func ParseEarningStatus(value string) (EarningStatus, error) {
	return parse(validEarningStatuses, value, "earning status")
}
