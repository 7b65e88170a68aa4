// Package dashboard aggregates the landing numbers for admins, vendors and
// delivery partners.
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

type RecentOrder struct {
	orders.OrderDTO
	CustomerName string `json:"customer_name"`
	VendorName   string `json:"vendor_name,omitempty"`
}

type AdminStats struct {
	TotalCustomers int64           `json:"total_customers"`
	TotalVendors   int64           `json:"total_vendors"`
	PendingVendors int64           `json:"pending_vendors"`
	TotalPartners  int64           `json:"total_partners"`
	OnlinePartners int64           `json:"online_partners"`
	TotalOrders    int64           `json:"total_orders"`
	TodayOrders    int64           `json:"today_orders"`
	PendingOrders  int64           `json:"pending_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	OpenTickets    int64           `json:"open_tickets"`
}

type AdminDashboard struct {
	Stats        AdminStats    `json:"stats"`
	RecentOrders []RecentOrder `json:"recent_orders"`
}

type VendorStats struct {
	TodayOrders   int64           `json:"today_orders"`
	TodayEarnings decimal.Decimal `json:"today_earnings"`
	TotalOrders   int64           `json:"total_orders"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	PendingOrders int64           `json:"pending_orders"`
}

type VendorDashboard struct {
	Stats           VendorStats   `json:"stats"`
	RecentOrders    []RecentOrder `json:"recent_orders"`
	LowStockCount   int64         `json:"low_stock_count"`
	OutOfStockCount int64         `json:"out_of_stock_count"`
}

type DeliveryStats struct {
	TodayDeliveries int64           `json:"today_deliveries"`
	TodayEarnings   decimal.Decimal `json:"today_earnings"`
	TotalDeliveries int64           `json:"total_deliveries"`
	Rating          decimal.Decimal `json:"rating"`
}

type DeliveryDashboard struct {
	Stats       DeliveryStats `json:"stats"`
	ActiveTasks int64         `json:"active_tasks"`
	IsOnline    bool          `json:"is_online"`
}

type Service interface {
	Admin(ctx context.Context) (*AdminDashboard, error)
	Vendor(ctx context.Context, vendorID uuid.UUID) (*VendorDashboard, error)
	Delivery(ctx context.Context, partnerID uuid.UUID) (*DeliveryDashboard, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, errors.New("dashboard repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

// counter collects the first failure so a run of counts reads flat.
type counter struct {
	ctx  context.Context
	repo Repository
	err  error
}

func (c *counter) count(model any, where ...any) int64 {
	if c.err != nil {
		return 0
	}
	n, err := c.repo.Count(c.ctx, model, where...)
	if err != nil {
		c.err = err
	}
	return n
}

func (s *service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *service) Admin(ctx context.Context) (*AdminDashboard, error) {
	today := s.today()
	c := &counter{ctx: ctx, repo: s.repo}
	stats := AdminStats{
		TotalCustomers: c.count(&models.Customer{}),
		TotalVendors:   c.count(&models.Vendor{}),
		PendingVendors: c.count(&models.Vendor{}, "status = ?", enums.VendorStatusPending),
		TotalPartners:  c.count(&models.DeliveryPartner{}),
		OnlinePartners: c.count(&models.DeliveryPartner{}, "is_online = ?", true),
		TotalOrders:    c.count(&models.Order{}),
		TodayOrders:    c.count(&models.Order{}, "created_at >= ?", today),
		PendingOrders:  c.count(&models.Order{}, "order_status = ?", enums.OrderStatusPending),
		OpenTickets:    c.count(&models.SupportTicket{}, "status = ?", enums.TicketOpen),
	}
	if c.err != nil {
		return nil, repo.MapError(c.err, "Dashboard not available")
	}
	revenue, err := s.repo.PaidRevenue(ctx)
	if err != nil {
		return nil, repo.MapError(err, "Dashboard not available")
	}
	stats.TotalRevenue = revenue

	recent, err := s.recent(ctx, nil, true)
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{Stats: stats, RecentOrders: recent}, nil
}

func (s *service) Vendor(ctx context.Context, vendorID uuid.UUID) (*VendorDashboard, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	today := s.today()
	c := &counter{ctx: ctx, repo: s.repo}
	stats := VendorStats{
		TodayOrders: c.count(&models.Order{}, "vendor_id = ? AND created_at >= ?", vendorID, today),
		TotalOrders: c.count(&models.Order{}, "vendor_id = ?", vendorID),
	}
	if c.err != nil {
		return nil, repo.MapError(c.err, "Dashboard not available")
	}

	var err error
	if stats.TodayEarnings, err = s.repo.VendorEarned(ctx, vendorID, &today); err != nil {
		return nil, repo.MapError(err, "Dashboard not available")
	}
	if stats.TotalEarnings, err = s.repo.VendorEarned(ctx, vendorID, nil); err != nil {
		return nil, repo.MapError(err, "Dashboard not available")
	}
	if stats.PendingOrders, err = s.repo.PendingVendorOrders(ctx, vendorID); err != nil {
		return nil, repo.MapError(err, "Dashboard not available")
	}
	low, out, err := s.repo.StockCounts(ctx, vendorID)
	if err != nil {
		return nil, repo.MapError(err, "Dashboard not available")
	}
	recent, err := s.recent(ctx, &vendorID, false)
	if err != nil {
		return nil, err
	}
	return &VendorDashboard{Stats: stats, RecentOrders: recent, LowStockCount: low, OutOfStockCount: out}, nil
}

func (s *service) Delivery(ctx context.Context, partnerID uuid.UUID) (*DeliveryDashboard, error) {
	partner, err := s.repo.FindPartner(ctx, partnerID)
	if err != nil {
		return nil, repo.MapError(err, "Delivery partner not found")
	}
	today := s.today()
	c := &counter{ctx: ctx, repo: s.repo}
	out := &DeliveryDashboard{
		Stats: DeliveryStats{
			TodayDeliveries: c.count(&models.DeliveryTask{},
				"partner_id = ? AND status = ? AND completed_at >= ?", partnerID, enums.TaskDelivered, today),
			TotalDeliveries: c.count(&models.DeliveryTask{}, "partner_id = ? AND status = ?", partnerID, enums.TaskDelivered),
			Rating:          partner.Rating,
		},
		ActiveTasks: c.count(&models.DeliveryTask{}, "partner_id = ? AND status IN ?", partnerID, enums.ActiveTaskStatuses),
		IsOnline:    partner.IsOnline,
	}
	if c.err != nil {
		return nil, repo.MapError(c.err, "Dashboard not available")
	}
	if out.Stats.TodayEarnings, err = s.repo.PartnerEarned(ctx, partnerID, today); err != nil {
		return nil, repo.MapError(err, "Dashboard not available")
	}
	return out, nil
}

func (s *service) recent(ctx context.Context, vendorID *uuid.UUID, withVendor bool) ([]RecentOrder, error) {
	rows, err := s.repo.RecentOrders(ctx, vendorID)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	customerIDs := make([]uuid.UUID, 0, len(rows))
	vendorIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		customerIDs = append(customerIDs, row.CustomerID)
		if withVendor {
			vendorIDs = append(vendorIDs, row.VendorID)
		}
	}
	customers, vendors, err := s.repo.Names(ctx, customerIDs, vendorIDs)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	out := make([]RecentOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, RecentOrder{
			OrderDTO:     orders.FromModel(row),
			CustomerName: customers[row.CustomerID],
			VendorName:   vendors[row.VendorID],
		})
	}
	return out, nil
}
