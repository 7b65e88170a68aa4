package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/customers"
	pkgAuth "github.com/angelmondragon/marketplace-backend/pkg/auth"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

type stubSessions struct {
	issued  []uuid.UUID
	revoked []string
}

func (s *stubSessions) Issue(_ context.Context, _ enums.Role, id uuid.UUID) (string, error) {
	s.issued = append(s.issued, id)
	return fmt.Sprintf("jti-%d", len(s.issued)), nil
}

func (s *stubSessions) Revoke(_ context.Context, jti string) error {
	s.revoked = append(s.revoked, jti)
	return nil
}

func (s *stubSessions) TTL() time.Duration { return 24 * time.Hour }

type stubSender struct {
	codes map[string]string
}

func (s *stubSender) SendOTP(_ context.Context, mobile, code string, _ time.Duration) error {
	if s.codes == nil {
		s.codes = map[string]string{}
	}
	s.codes[mobile] = code
	return nil
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

type harness struct {
	svc      Service
	conn     *gorm.DB
	sessions *stubSessions
	sender   *stubSender
	clock    *clock
	jwt      config.JWTConfig
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	client, conn := dbtest.Client(t)
	h := &harness{
		conn:     conn,
		sessions: &stubSessions{},
		sender:   &stubSender{},
		clock:    &clock{now: time.Now().UTC().Truncate(time.Second)},
		jwt:      config.JWTConfig{Secret: "test-secret", Issuer: "marketplace", ExpirationMinutes: 60},
	}
	svc, err := NewService(ServiceParams{
		Repo:           NewRepository(conn),
		Tx:             client,
		SessionManager: h.sessions,
		OTPSender:      h.sender,
		JWTConfig:      h.jwt,
		OTPConfig:      config.OTPConfig{TTL: 10 * time.Minute},
		PasswordConfig: config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		Now:            h.clock.Now,
	})
	require.NoError(t, err)
	h.svc = svc
	return h
}

func strPtr(v string) *string { return &v }

func TestCustomerRegistersOnFirstVerify(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.svc.SendOTP(ctx, enums.RoleCustomer, SendOTPRequest{Mobile: "9000000001", Name: strPtr("Asha")})
	require.NoError(t, err)
	assert.EqualValues(t, 600, resp.ExpiresIn)
	code := h.sender.codes["9000000001"]
	require.Len(t, code, 6)

	auth, err := h.svc.VerifyOTP(ctx, enums.RoleCustomer, VerifyOTPRequest{Mobile: "9000000001", OTP: code, FCMToken: strPtr("fcm-1")})
	require.NoError(t, err)
	assert.Equal(t, messageRegistered, auth.Message)
	assert.Equal(t, "Bearer", auth.TokenType)
	user, ok := auth.User.(customers.CustomerDTO)
	require.True(t, ok)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, enums.CustomerStatusActive, user.Status)

	claims, err := pkgAuth.ParseToken(h.jwt, auth.Token)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleCustomer, claims.Role)
	assert.Equal(t, "jti-1", claims.ID)
	assert.Equal(t, user.ID.String(), claims.Subject)

	var stored models.Customer
	require.NoError(t, h.conn.First(&stored, "id = ?", user.ID).Error)
	require.NotNil(t, stored.FCMToken)
	assert.Equal(t, "fcm-1", *stored.FCMToken)
	assert.NotNil(t, stored.PhoneVerifiedAt)

	var otp models.OTPCode
	require.NoError(t, h.conn.First(&otp, "mobile = ?", "9000000001").Error)
	assert.Nil(t, otp.Code)
	assert.NotNil(t, otp.ConsumedAt)
}

func TestVerifyRejectsReuseAndWrongCode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.SendOTP(ctx, enums.RoleCustomer, SendOTPRequest{Mobile: "9000000001"})
	require.NoError(t, err)
	code := h.sender.codes["9000000001"]

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = h.svc.VerifyOTP(ctx, enums.RoleCustomer, VerifyOTPRequest{Mobile: "9000000001", OTP: wrong})
	require.Error(t, err)
	assert.Equal(t, invalidOTPMessage, pkgerrors.As(err).Message())
	assert.Equal(t, pkgerrors.CodeBusinessRule, pkgerrors.As(err).Code())

	_, err = h.svc.VerifyOTP(ctx, enums.RoleCustomer, VerifyOTPRequest{Mobile: "9000000001", OTP: code})
	require.NoError(t, err)

	_, err = h.svc.VerifyOTP(ctx, enums.RoleCustomer, VerifyOTPRequest{Mobile: "9000000001", OTP: code})
	require.Error(t, err)
	assert.Equal(t, invalidOTPMessage, pkgerrors.As(err).Message())
}

func TestVerifyNotRequestedAndExpired(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.VerifyOTP(ctx, enums.RoleCustomer, VerifyOTPRequest{Mobile: "9000000009", OTP: "123456"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "OTP not requested", pkgerrors.As(err).Message())

	_, err = h.svc.SendOTP(ctx, enums.RoleCustomer, SendOTPRequest{Mobile: "9000000001"})
	require.NoError(t, err)
	h.clock.now = h.clock.now.Add(11 * time.Minute)
	_, err = h.svc.VerifyOTP(ctx, enums.RoleCustomer, VerifyOTPRequest{Mobile: "9000000001", OTP: h.sender.codes["9000000001"]})
	require.Error(t, err)
	assert.Equal(t, "OTP has expired", pkgerrors.As(err).Message())
}

func TestBlockedCustomerCannotRequestCode(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.conn.Create(&models.Customer{Name: "B", Phone: "9000000002", Status: enums.CustomerStatusBlocked}).Error)

	_, err := h.svc.SendOTP(context.Background(), enums.RoleCustomer, SendOTPRequest{Mobile: "9000000002"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.Equal(t, "Your account is blocked", pkgerrors.As(err).Message())
	assert.Empty(t, h.sender.codes)
}

func TestVendorSelfRegistrationIsPending(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.SendOTP(ctx, enums.RoleVendor, SendOTPRequest{Mobile: "9000000003", BusinessName: strPtr("Fresh Mart")})
	require.NoError(t, err)

	auth, err := h.svc.VerifyOTP(ctx, enums.RoleVendor, VerifyOTPRequest{Mobile: "9000000003", OTP: h.sender.codes["9000000003"]})
	require.NoError(t, err)
	assert.Equal(t, messageVendorRegistered, auth.Message)

	var vendor models.Vendor
	require.NoError(t, h.conn.First(&vendor, "phone = ?", "9000000003").Error)
	assert.Equal(t, enums.VendorStatusPending, vendor.Status)
	assert.Equal(t, "Fresh Mart", vendor.BusinessName)
	assert.Equal(t, defaultVendorName, vendor.Name)

	_, err = h.svc.SendOTP(ctx, enums.RoleVendor, SendOTPRequest{Mobile: "9000000003"})
	require.Error(t, err)
	assert.Equal(t, "Your account is pending", pkgerrors.As(err).Message())
}

func TestDeliveryPartnerMustExistAndBeApproved(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.SendOTP(ctx, enums.RoleDelivery, SendOTPRequest{Mobile: "9000000004"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, partnerMissingMessage, pkgerrors.As(err).Message())

	partner := models.DeliveryPartner{Name: "P", Phone: "9000000004", VehicleType: enums.VehicleBike, Status: enums.PartnerStatusPending}
	require.NoError(t, h.conn.Create(&partner).Error)
	_, err = h.svc.SendOTP(ctx, enums.RoleDelivery, SendOTPRequest{Mobile: "9000000004"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	require.NoError(t, h.conn.Model(&partner).Update("status", enums.PartnerStatusApproved).Error)
	_, err = h.svc.SendOTP(ctx, enums.RoleDelivery, SendOTPRequest{Mobile: "9000000004"})
	require.NoError(t, err)
	auth, err := h.svc.VerifyOTP(ctx, enums.RoleDelivery, VerifyOTPRequest{Mobile: "9000000004", OTP: h.sender.codes["9000000004"]})
	require.NoError(t, err)
	assert.Equal(t, messageLogin, auth.Message)
	assert.Equal(t, []uuid.UUID{partner.ID}, h.sessions.issued)
}

func TestAdminCannotUseOTP(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.SendOTP(context.Background(), enums.RoleAdmin, SendOTPRequest{Mobile: "9000000005"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestAdminLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	admin, created, err := h.svc.EnsureAdmin(ctx, "Root", "Root@Example.com", "correct-horse")
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = h.svc.EnsureAdmin(ctx, "Root", "root@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = h.svc.AdminLogin(ctx, AdminLoginRequest{Email: "root@example.com", Password: "wrong-horse"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Equal(t, invalidCredentialsMessage, pkgerrors.As(err).Message())

	_, err = h.svc.AdminLogin(ctx, AdminLoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	resp, err := h.svc.AdminLogin(ctx, AdminLoginRequest{Email: "ROOT@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, enums.RoleAdmin, resp.Role)
	dto, ok := resp.User.(AdminDTO)
	require.True(t, ok)
	assert.Equal(t, admin.ID, dto.ID)
	assert.NotNil(t, dto.LastLoginAt)

	require.NoError(t, h.conn.Model(&models.Admin{}).Where("id = ?", admin.ID).Update("status", enums.AdminStatusInactive).Error)
	_, err = h.svc.AdminLogin(ctx, AdminLoginRequest{Email: "root@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestLogoutRevokesSession(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.svc.Logout(context.Background(), "jti-9"))
	assert.Equal(t, []string{"jti-9"}, h.sessions.revoked)
}
