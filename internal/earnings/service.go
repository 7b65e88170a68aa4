package earnings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

type Service interface {
	PartnerEarnings(ctx context.Context, partnerID uuid.UUID, filters Filters, params pagination.Params) (*PartnerEarnings, error)
	PartnerSummary(ctx context.Context, partnerID uuid.UUID, period string) (*PeriodSummary, error)
	VendorEarnings(ctx context.Context, vendorID uuid.UUID, filters Filters, params pagination.Params) (*VendorEarnings, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, errors.New("earnings repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func (s *service) PartnerEarnings(ctx context.Context, partnerID uuid.UUID, filters Filters, params pagination.Params) (*PartnerEarnings, error) {
	params = params.Normalize()
	rows, total, err := s.repo.ListPartner(ctx, partnerID, filters, params)
	if err != nil {
		return nil, repo.MapError(err, "Earning not found")
	}
	numbers, err := s.repo.OrderNumbers(ctx, partnerOrderIDs(rows))
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	items := make([]DeliveryEarningDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, deliveryFromModel(row, numbers[row.OrderID]))
	}

	// Totals ignore the status filter so both buckets are always reported.
	scope := Filters{StartDate: filters.StartDate, EndDate: filters.EndDate}
	var summary PartnerTotals
	if summary.Paid, err = s.repo.PartnerTotal(ctx, partnerID, scope.withStatus(enums.EarningPaid)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum paid earnings")
	}
	if summary.Pending, err = s.repo.PartnerTotal(ctx, partnerID, scope.withStatus(enums.EarningPending)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum pending earnings")
	}
	today := s.now()
	if summary.Today, err = s.repo.PartnerTotal(ctx, partnerID, Filters{StartDate: &today, EndDate: &today}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum today earnings")
	}
	summary.Total = summary.Paid.Add(summary.Pending)

	return &PartnerEarnings{Page: pagination.NewPage(items, params, total), Summary: summary}, nil
}

func (s *service) PartnerSummary(ctx context.Context, partnerID uuid.UUID, period string) (*PeriodSummary, error) {
	if period == "" {
		period = PeriodWeek
	}
	now := s.now().UTC()
	start, end, ok := periodBounds(period, now)
	if !ok {
		return nil, pkgerrors.Validation(map[string]string{"period": "must be one of today, week, month"})
	}
	rows, err := s.repo.PartnerRows(ctx, partnerID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load earnings")
	}

	out := &PeriodSummary{
		Period:        period,
		StartDate:     start.Format(dateLayout),
		EndDate:       end.AddDate(0, 0, -1).Format(dateLayout),
		TotalEarnings: decimal.Zero,
	}
	index := map[string]int{}
	for day := start; !day.After(now) && day.Before(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		index[key] = len(out.Daily)
		out.Daily = append(out.Daily, DailyEarning{Date: key, Earnings: decimal.Zero})
	}
	for _, row := range rows {
		out.TotalEarnings = out.TotalEarnings.Add(row.TotalAmount)
		out.TotalDeliveries++
		if i, ok := index[row.CreatedAt.UTC().Format(dateLayout)]; ok {
			out.Daily[i].Earnings = out.Daily[i].Earnings.Add(row.TotalAmount)
			out.Daily[i].Deliveries++
		}
	}
	return out, nil
}

func (s *service) VendorEarnings(ctx context.Context, vendorID uuid.UUID, filters Filters, params pagination.Params) (*VendorEarnings, error) {
	params = params.Normalize()
	rows, total, err := s.repo.ListVendor(ctx, vendorID, filters, params)
	if err != nil {
		return nil, repo.MapError(err, "Earning not found")
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.OrderID)
	}
	numbers, err := s.repo.OrderNumbers(ctx, ids)
	if err != nil {
		return nil, repo.MapError(err, "Order not found")
	}
	items := make([]VendorEarningDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, vendorFromModel(row, numbers[row.OrderID]))
	}

	scope := Filters{StartDate: filters.StartDate, EndDate: filters.EndDate}
	var summary VendorTotals
	if summary.Paid, err = s.repo.VendorTotal(ctx, vendorID, scope.withStatus(enums.EarningPaid)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum paid earnings")
	}
	if summary.Pending, err = s.repo.VendorTotal(ctx, vendorID, scope.withStatus(enums.EarningPending)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum pending earnings")
	}
	summary.Total = summary.Paid.Add(summary.Pending)

	return &VendorEarnings{Page: pagination.NewPage(items, params, total), Summary: summary}, nil
}

// periodBounds returns the half-open UTC window for a summary period. Weeks
// start on Monday.
func periodBounds(period string, now time.Time) (time.Time, time.Time, bool) {
	today := dayStart(now)
	switch period {
	case PeriodToday:
		return today, today.AddDate(0, 0, 1), true
	case PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), true
	case PeriodMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0), true
	}
	return time.Time{}, time.Time{}, false
}

func partnerOrderIDs(rows []models.DeliveryEarning) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.OrderID)
	}
	return ids
}
