package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/address"
	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/checkout/helpers"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// InventoryReserver takes stock with a conditional update.
type InventoryReserver interface {
	Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error)
}

// Service executes checkout orchestration.
type Service interface {
	PlaceOrder(ctx context.Context, customerID uuid.UUID, input PlaceOrderInput) (*Result, error)
}

type Params struct {
	Tx             db.TxRunner
	Cart           cart.Repository
	Addresses      address.Repository
	Orders         orders.Repository
	Vendors        vendors.Repository
	Inventory      InventoryReserver
	Outbox         outboxPublisher
	DeliveryCharge decimal.Decimal
	Transit        time.Duration
	Now            func() time.Time
}

type service struct {
	tx             db.TxRunner
	cart           cart.Repository
	addresses      address.Repository
	orders         orders.Repository
	vendors        vendors.Repository
	inventory      InventoryReserver
	outbox         outboxPublisher
	deliveryCharge decimal.Decimal
	transit        time.Duration
	now            func() time.Time
	numbers        func(time.Time) (string, error)
}

// numberAttempts bounds order number regeneration on collision.
const numberAttempts = 3

// NewService builds the checkout service.
func NewService(p Params) (Service, error) {
	switch {
	case p.Tx == nil:
		return nil, fmt.Errorf("tx runner required")
	case p.Cart == nil:
		return nil, fmt.Errorf("cart repository required")
	case p.Addresses == nil:
		return nil, fmt.Errorf("address repository required")
	case p.Orders == nil:
		return nil, fmt.Errorf("orders repository required")
	case p.Vendors == nil:
		return nil, fmt.Errorf("vendors repository required")
	case p.Inventory == nil:
		return nil, fmt.Errorf("inventory reserver required")
	case p.Outbox == nil:
		return nil, fmt.Errorf("outbox publisher required")
	}
	if p.Transit <= 0 {
		p.Transit = 2 * time.Hour
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &service{
		tx:             p.Tx,
		cart:           p.Cart,
		addresses:      p.Addresses,
		orders:         p.Orders,
		vendors:        p.Vendors,
		inventory:      p.Inventory,
		outbox:         p.Outbox,
		deliveryCharge: p.DeliveryCharge,
		transit:        p.Transit,
		now:            p.Now,
		numbers:        orderNumber,
	}, nil
}

// PlaceOrder turns the cart into one order per vendor. Stock, orders and the
// cleared cart commit together or not at all.
func (s *service) PlaceOrder(ctx context.Context, customerID uuid.UUID, input PlaceOrderInput) (*Result, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.Validation(map[string]string{"payment_method": "is invalid"})
	}

	var result *Result
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cart.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)

		lines, err := cartRepo.List(ctx, customerID)
		if err != nil {
			return repo.MapError(err, "Cart item not found")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "Cart is empty")
		}
		addr, err := s.addresses.WithTx(tx).FindForCustomer(ctx, customerID, input.AddressID)
		if err != nil {
			return repo.MapError(err, "Address not found")
		}

		groups := helpers.GroupByVendor(lines)
		vendorIDs := make([]uuid.UUID, 0, len(groups))
		for _, group := range groups {
			vendorIDs = append(vendorIDs, group.VendorID)
		}
		vendorRows, err := s.vendors.WithTx(tx).FindByIDs(ctx, vendorIDs)
		if err != nil {
			return repo.MapError(err, "Vendor not found")
		}

		for _, line := range lines {
			if err := s.reserve(ctx, tx, line, vendorRows); err != nil {
				return err
			}
		}

		now := s.now().UTC()
		eta := now.Add(s.transit)
		snapshot := address.Format(*addr)
		actor := &outbox.ActorRef{ID: customerID, Type: enums.ActorCustomer}
		result = &Result{Orders: make([]PlacedOrder, 0, len(groups)), GrandTotal: decimal.Zero}

		for _, group := range groups {
			final := group.Subtotal.Add(s.deliveryCharge)
			order := &models.Order{
				CustomerID:            customerID,
				VendorID:              group.VendorID,
				AddressID:             addr.ID,
				DeliveryAddress:       snapshot,
				Subtotal:              group.Subtotal,
				DeliveryCharge:        s.deliveryCharge,
				DiscountAmount:        decimal.Zero,
				TaxAmount:             decimal.Zero,
				FinalAmount:           final,
				PaymentMethod:         input.PaymentMethod,
				PaymentStatus:         input.PaymentMethod.InitialPaymentStatus(),
				OrderStatus:           enums.OrderStatusPending,
				CustomerNotes:         input.Notes,
				EstimatedDeliveryTime: &eta,
			}
			if err := s.insertOrder(ctx, tx, order, now); err != nil {
				return err
			}

			items := make([]models.OrderItem, 0, len(group.Items))
			for _, line := range group.Items {
				items = append(items, models.OrderItem{
					OrderID:     order.ID,
					ProductID:   line.ProductID,
					ProductName: line.Product.Name,
					Quantity:    line.Quantity,
					UnitPrice:   line.UnitPrice,
					TotalPrice:  line.LineTotal(),
				})
			}
			if err := ordersRepo.CreateItems(ctx, items); err != nil {
				return repo.MapError(err, "Order not found")
			}

			commission := helpers.Commission(group.Subtotal, vendorRows[group.VendorID].CommissionRate)
			if err := ordersRepo.CreateVendorOrder(ctx, &models.VendorOrder{
				OrderID:          order.ID,
				VendorID:         group.VendorID,
				Status:           enums.VendorOrderPending,
				Subtotal:         group.Subtotal,
				CommissionAmount: commission,
				NetAmount:        group.Subtotal.Sub(commission),
			}); err != nil {
				return repo.MapError(err, "Order not found")
			}
			if err := ordersRepo.AppendHistory(ctx, &models.OrderStatusHistory{
				OrderID:     order.ID,
				Status:      enums.OrderStatusPending,
				ChangedBy:   enums.ActorCustomer,
				ChangedByID: &customerID,
			}); err != nil {
				return repo.MapError(err, "Order not found")
			}

			event := outbox.DomainEvent{
				EventType:     enums.EventOrderPlaced,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Actor:         actor,
				OccurredAt:    now,
				Data: payloads.OrderPlaced{
					OrderID:     order.ID,
					OrderNumber: order.OrderNumber,
					CustomerID:  customerID,
					VendorID:    group.VendorID,
					FinalAmount: final,
				},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order placed event")
			}

			result.Orders = append(result.Orders, PlacedOrder{
				ID:          order.ID,
				OrderNumber: order.OrderNumber,
				VendorID:    group.VendorID,
				FinalAmount: final,
			})
			result.GrandTotal = result.GrandTotal.Add(final)
		}

		if err := cartRepo.Clear(ctx, customerID); err != nil {
			return repo.MapError(err, "Cart item not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) reserve(ctx context.Context, tx *gorm.DB, line models.CartItem, vendorRows map[uuid.UUID]models.Vendor) error {
	if line.Product == nil {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "Product not available")
	}
	if vendor, ok := vendorRows[line.VendorID]; !ok || vendor.Status != enums.VendorStatusActive {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "Product not available")
	}
	ok, err := s.inventory.Reserve(ctx, tx, line.ProductID, line.Quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
	}
	if !ok {
		return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "Insufficient stock for %s", line.Product.Name)
	}
	return nil
}

// orderNumber is ORD, the placement date and six random alphanumerics.
// insertOrder numbers and stores order. Each attempt runs in a savepoint so a
// colliding number can be regenerated without aborting the checkout.
func (s *service) insertOrder(ctx context.Context, tx *gorm.DB, order *models.Order, now time.Time) error {
	for attempt := 1; ; attempt++ {
		number, err := s.numbers(now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}
		order.ID = uuid.Nil
		order.OrderNumber = number
		err = tx.Transaction(func(sp *gorm.DB) error {
			return s.orders.WithTx(sp).CreateOrder(ctx, order)
		})
		if err == nil {
			return nil
		}
		if !db.IsUniqueViolation(err, "") || attempt == numberAttempts {
			return repo.MapError(err, "Order not found")
		}
	}
}

func orderNumber(now time.Time) (string, error) {
	suffix, err := security.RandomReference(6)
	if err != nil {
		return "", err
	}
	return "ORD" + now.Format("20060102") + suffix, nil
}
