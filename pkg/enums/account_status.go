package enums

// AdminStatus gates admin password login.
type AdminStatus string

const (
	AdminStatusActive   AdminStatus = "active"
	AdminStatusInactive AdminStatus = "inactive"
)

// VendorStatus tracks vendor onboarding and suspension.
type VendorStatus string

const (
	VendorStatusPending   VendorStatus = "pending"
	VendorStatusActive    VendorStatus = "active"
	VendorStatusSuspended VendorStatus = "suspended"
)

var validVendorStatuses = []VendorStatus{VendorStatusPending, VendorStatusActive, VendorStatusSuspended}

func (v VendorStatus) String() string { return string(v) }

func (v VendorStatus) IsValid() bool { return contains(validVendorStatuses, v) }

func ParseVendorStatus(value string) (VendorStatus, error) {
	return parse(validVendorStatuses, value, "vendor status")
}

// CustomerStatus is set by admins.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
	CustomerStatusBlocked  CustomerStatus = "blocked"
)

var validCustomerStatuses = []CustomerStatus{CustomerStatusActive, CustomerStatusInactive, CustomerStatusBlocked}

func (c CustomerStatus) String() string { return string(c) }

func (c CustomerStatus) IsValid() bool { return contains(validCustomerStatuses, c) }

func ParseCustomerStatus(value string) (CustomerStatus, error) {
	return parse(validCustomerStatuses, value, "customer status")
}

// PartnerStatus tracks delivery partner verification.
type PartnerStatus string

const (
	PartnerStatusPending   PartnerStatus = "pending"
	PartnerStatusApproved  PartnerStatus = "approved"
	PartnerStatusSuspended PartnerStatus = "suspended"
	PartnerStatusRejected  PartnerStatus = "rejected"
)

var validPartnerStatuses = []PartnerStatus{PartnerStatusPending, PartnerStatusApproved, PartnerStatusSuspended, PartnerStatusRejected}

func (p PartnerStatus) String() string { return string(p) }

func (p PartnerStatus) IsValid() bool { return contains(validPartnerStatuses, p) }

func ParsePartnerStatus(value string) (PartnerStatus, error) {
	return parse(validPartnerStatuses, value, "partner status")
}

// VehicleType is declared by delivery partners.
type VehicleType string

const (
	VehicleBike    VehicleType = "bike"
	VehicleCar     VehicleType = "car"
	VehicleScooter VehicleType = "scooter"
	VehicleVan     VehicleType = "van"
)

var validVehicleTypes = []VehicleType{VehicleBike, VehicleCar, VehicleScooter, VehicleVan}

func (v VehicleType) IsValid() bool { return contains(validVehicleTypes, v) }

func ParseVehicleType(value string) (VehicleType, error) {
	return parse(validVehicleTypes, value, "vehicle type")
}

// AddressType labels customer addresses.
type AddressType string

const (
	AddressHome  AddressType = "home"
	AddressWork  AddressType = "work"
	AddressOther AddressType = "other"
)

var validAddressTypes = []AddressType{AddressHome, AddressWork, AddressOther}

func (a AddressType) IsValid() bool { return contains(validAddressTypes, a) }
