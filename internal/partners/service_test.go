package partners

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type stubRevoker struct {
	revoked []uuid.UUID
}

func (s *stubRevoker) RevokeIdentity(_ context.Context, _ enums.Role, id uuid.UUID) error {
	s.revoked = append(s.revoked, id)
	return nil
}

func newTestService(t *testing.T) (Service, *gorm.DB, *stubRevoker) {
	t.Helper()
	client, conn := dbtest.Client(t)
	revoker := &stubRevoker{}
	svc, err := NewService(NewRepository(conn), client, revoker)
	require.NoError(t, err)
	return svc, conn, revoker
}

func createPartner(t *testing.T, svc Service, phone string) *PartnerDTO {
	t.Helper()
	dto, err := svc.Create(context.Background(), CreateInput{
		Name:        "Kiran",
		Phone:       phone,
		VehicleType: enums.VehicleBike,
	})
	require.NoError(t, err)
	return dto
}

func TestCreateStartsPending(t *testing.T) {
	svc, _, _ := newTestService(t)
	dto := createPartner(t, svc, "9000000100")
	assert.Equal(t, enums.PartnerStatusPending, dto.Status)
	assert.False(t, dto.IsOnline)

	_, err := svc.Create(context.Background(), CreateInput{Name: "Dup", Phone: "9000000100", VehicleType: enums.VehicleCar})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestVerifyWritesLogRow(t *testing.T) {
	svc, conn, revoker := newTestService(t)
	dto := createPartner(t, svc, "9000000100")
	adminID := uuid.New()
	notes := "documents checked"

	verified, err := svc.Verify(context.Background(), adminID, dto.ID, VerifyInput{Status: enums.PartnerStatusApproved, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, enums.PartnerStatusApproved, verified.Status)
	assert.Empty(t, revoker.revoked)

	var rows []models.PartnerVerification
	require.NoError(t, conn.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, adminID, rows[0].AdminID)
	assert.Equal(t, enums.PartnerStatusApproved, rows[0].Status)
}

func TestVerifyRejectsOtherStatuses(t *testing.T) {
	svc, _, _ := newTestService(t)
	dto := createPartner(t, svc, "9000000100")
	_, err := svc.Verify(context.Background(), uuid.New(), dto.ID, VerifyInput{Status: enums.PartnerStatusSuspended})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestVerifyUnknownPartnerRollsBack(t *testing.T) {
	svc, conn, _ := newTestService(t)
	_, err := svc.Verify(context.Background(), uuid.New(), uuid.New(), VerifyInput{Status: enums.PartnerStatusRejected})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	var count int64
	require.NoError(t, conn.Model(&models.PartnerVerification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSuspendTakesOfflineAndRevokes(t *testing.T) {
	svc, conn, revoker := newTestService(t)
	dto := createPartner(t, svc, "9000000100")
	require.NoError(t, conn.Model(&models.DeliveryPartner{}).Where("id = ?", dto.ID).
		Updates(map[string]any{"status": enums.PartnerStatusApproved, "is_online": true}).Error)

	updated, err := svc.UpdateStatus(context.Background(), dto.ID, enums.PartnerStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, enums.PartnerStatusSuspended, updated.Status)
	assert.False(t, updated.IsOnline)
	assert.Equal(t, []uuid.UUID{dto.ID}, revoker.revoked)
}

func TestProfileStats(t *testing.T) {
	svc, conn, _ := newTestService(t)
	dto := createPartner(t, svc, "9000000100")
	partnerID := dto.ID
	for i := 0; i < 2; i++ {
		task := models.DeliveryTask{
			OrderID:         uuid.New(),
			PartnerID:       &partnerID,
			Status:          enums.TaskDelivered,
			PickupAddress:   "A",
			DeliveryAddress: "B",
		}
		require.NoError(t, conn.Create(&task).Error)
		require.NoError(t, conn.Create(&models.DeliveryEarning{
			TaskID:        task.ID,
			PartnerID:     partnerID,
			OrderID:       task.OrderID,
			BaseFare:      decimal.NewFromInt(20),
			DistanceFare:  decimal.NewFromInt(10),
			TimeFare:      decimal.NewFromInt(5),
			TotalAmount:   decimal.NewFromInt(35),
			PaymentStatus: enums.EarningPending,
		}).Error)
	}

	profile, err := svc.Profile(context.Background(), partnerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, profile.Stats.TotalDeliveries)
	assert.Equal(t, "70", profile.Stats.TotalEarnings.String())
}

func TestListFilters(t *testing.T) {
	svc, _, _ := newTestService(t)
	createPartner(t, svc, "9000000100")
	_, err := svc.Create(context.Background(), CreateInput{Name: "Vani", Phone: "9000000101", VehicleType: enums.VehicleVan})
	require.NoError(t, err)

	van := enums.VehicleVan
	page, err := svc.List(context.Background(), ListFilters{VehicleType: &van}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Vani", page.Items[0].Name)
}

func TestMarkStaleOffline(t *testing.T) {
	conn := dbtest.Open(t)
	repository := NewRepository(conn)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fresh, stale := now.Add(-5*time.Minute), now.Add(-2*time.Hour)

	active := dbtest.Partner(t, conn, func(p *models.DeliveryPartner) { p.IsOnline = true; p.LastLocationAt = &fresh })
	idle := dbtest.Partner(t, conn, func(p *models.DeliveryPartner) { p.IsOnline = true; p.LastLocationAt = &stale })
	neverPinged := dbtest.Partner(t, conn, func(p *models.DeliveryPartner) { p.IsOnline = true })

	swept, err := repository.MarkStaleOffline(context.Background(), now.Add(-30*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 2, swept)

	for id, online := range map[uuid.UUID]bool{active.ID: true, idle.ID: false, neverPinged.ID: false} {
		partner, err := repository.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, online, partner.IsOnline)
	}
}
