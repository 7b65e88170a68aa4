package enums

// Role identifies which route tree a credential belongs to.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
	RoleDelivery Role = "delivery"
)

var validRoles = []Role{RoleAdmin, RoleVendor, RoleCustomer, RoleDelivery}

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool { return contains(validRoles, r) }

// UsesOTP reports whether the role signs in with a phone one-time code.
func (r Role) UsesOTP() bool {
	return r == RoleVendor || r == RoleCustomer || r == RoleDelivery
}

func ParseRole(value string) (Role, error) { return parse(validRoles, value, "role") }

// ActorType is recorded on status history rows.
type ActorType string

const (
	ActorCustomer ActorType = "customer"
	ActorVendor   ActorType = "vendor"
	ActorDelivery ActorType = "delivery"
	ActorAdmin    ActorType = "admin"
	ActorSystem   ActorType = "system"
)

var validActorTypes = []ActorType{ActorCustomer, ActorVendor, ActorDelivery, ActorAdmin, ActorSystem}

func (a ActorType) IsValid() bool { return contains(validActorTypes, a) }

// ActorFor maps a credential role onto the history actor type.
func ActorFor(role Role) ActorType {
	switch role {
	case RoleCustomer:
		return ActorCustomer
	case RoleVendor:
		return ActorVendor
	case RoleDelivery:
		return ActorDelivery
	case RoleAdmin:
		return ActorAdmin
	default:
		return ActorSystem
	}
}
