package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/customers"
	"github.com/angelmondragon/marketplace-backend/internal/partners"
	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	pkgAuth "github.com/angelmondragon/marketplace-backend/pkg/auth"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/notify"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

const (
	otpLength                 = 6
	invalidCredentialsMessage = "invalid credentials"
	invalidOTPMessage         = "Invalid OTP"
	partnerMissingMessage     = "Delivery partner not found. Please contact admin."

	messageLogin              = "Login successful"
	messageRegistered         = "Registration successful"
	messageVendorRegistered   = "Registration successful. Account pending approval."
	defaultCustomerName       = "Customer"
	defaultVendorName         = "Vendor"
	defaultVendorBusinessName = "Business"
)

// Service defines the behavior needed by the auth controllers.
type Service interface {
	SendOTP(ctx context.Context, role enums.Role, req SendOTPRequest) (*SendOTPResponse, error)
	VerifyOTP(ctx context.Context, role enums.Role, req VerifyOTPRequest) (*AuthResponse, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, jti string) error
	// EnsureAdmin creates the admin account when the email is not taken yet.
	EnsureAdmin(ctx context.Context, name, email, password string) (*AdminDTO, bool, error)
}

type sessionManager interface {
	Issue(ctx context.Context, role enums.Role, identityID uuid.UUID) (string, error)
	Revoke(ctx context.Context, jti string) error
	TTL() time.Duration
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Repo           Repository
	Tx             db.TxRunner
	SessionManager sessionManager
	OTPSender      notify.OTPSender
	JWTConfig      config.JWTConfig
	OTPConfig      config.OTPConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	repo     Repository
	tx       db.TxRunner
	sessions sessionManager
	sender   notify.OTPSender
	jwtCfg   config.JWTConfig
	otpTTL   time.Duration
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("auth repository is required")
	}
	if params.Tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if params.SessionManager == nil {
		return nil, errors.New("session manager is required")
	}
	if params.OTPSender == nil {
		return nil, errors.New("otp sender is required")
	}
	if params.OTPConfig.TTL <= 0 {
		return nil, errors.New("otp ttl must be positive")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		sessions: params.SessionManager,
		sender:   params.OTPSender,
		jwtCfg:   params.JWTConfig,
		otpTTL:   params.OTPConfig.TTL,
		pwCfg:    params.PasswordConfig,
		logg:     logg,
		now:      now,
	}, nil
}

func (s *service) SendOTP(ctx context.Context, role enums.Role, req SendOTPRequest) (*SendOTPResponse, error) {
	if !role.UsesOTP() {
		return nil, pkgerrors.Newf(pkgerrors.CodeForbidden, "%s accounts cannot sign in with OTP", role)
	}
	mobile := strings.TrimSpace(req.Mobile)

	profile, err := s.pendingProfile(ctx, role, mobile, req)
	if err != nil {
		return nil, err
	}

	code, err := security.GenerateOTP(otpLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	row := &models.OTPCode{
		Role:           role,
		Mobile:         mobile,
		Code:           &code,
		ExpiresAt:      s.now().Add(s.otpTTL),
		PendingProfile: profile,
	}
	if err := s.repo.UpsertOTP(ctx, row); err != nil {
		return nil, repo.MapError(err, "OTP not requested")
	}
	if err := s.sender.SendOTP(ctx, mobile, code, s.otpTTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unable to send otp")
	}

	s.logg.Info(s.logg.WithField(ctx, "role", string(role)), "otp issued")
	return &SendOTPResponse{ExpiresIn: int64(s.otpTTL.Seconds())}, nil
}

// pendingProfile refuses blocked identities before any code is issued and
// returns the registration fields to keep for unknown ones.
func (s *service) pendingProfile(ctx context.Context, role enums.Role, mobile string, req SendOTPRequest) (map[string]string, error) {
	switch role {
	case enums.RoleCustomer:
		customer, err := s.repo.FindCustomerByPhone(ctx, mobile)
		if err == nil {
			if customer.Status != enums.CustomerStatusActive {
				return nil, accountStatusError(string(customer.Status))
			}
			return nil, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.MapError(err, "")
		}
		return profileFields(map[string]*string{"name": req.Name, "email": req.Email}), nil
	case enums.RoleVendor:
		vendor, err := s.repo.FindVendorByPhone(ctx, mobile)
		if err == nil {
			if vendor.Status != enums.VendorStatusActive {
				return nil, accountStatusError(string(vendor.Status))
			}
			return nil, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.MapError(err, "")
		}
		return profileFields(map[string]*string{"name": req.Name, "email": req.Email, "business_name": req.BusinessName}), nil
	case enums.RoleDelivery:
		partner, err := s.repo.FindPartnerByPhone(ctx, mobile)
		if err != nil {
			return nil, repo.MapError(err, partnerMissingMessage)
		}
		if partner.Status != enums.PartnerStatusApproved {
			return nil, accountStatusError(string(partner.Status))
		}
		return nil, nil
	default:
		return nil, pkgerrors.Newf(pkgerrors.CodeForbidden, "%s accounts cannot sign in with OTP", role)
	}
}

type identity struct {
	id      uuid.UUID
	user    any
	message string
}

func (s *service) VerifyOTP(ctx context.Context, role enums.Role, req VerifyOTPRequest) (*AuthResponse, error) {
	if !role.UsesOTP() {
		return nil, pkgerrors.Newf(pkgerrors.CodeForbidden, "%s accounts cannot sign in with OTP", role)
	}
	mobile := strings.TrimSpace(req.Mobile)
	now := s.now()

	var who identity
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		row, err := txRepo.FindOTP(ctx, role, mobile)
		if err != nil {
			return repo.MapError(err, "OTP not requested")
		}
		if row.Code == nil || *row.Code != req.OTP {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, invalidOTPMessage)
		}
		if now.After(row.ExpiresAt) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "OTP has expired")
		}
		consumed, err := txRepo.ConsumeOTP(ctx, row.ID, req.OTP, now)
		if err != nil {
			return repo.MapError(err, "OTP not requested")
		}
		if !consumed {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, invalidOTPMessage)
		}

		who, err = resolveIdentity(ctx, txRepo, role, mobile, row.PendingProfile)
		if err != nil {
			return err
		}
		if err := txRepo.StampLogin(ctx, role, who.id, now, req.FCMToken); err != nil {
			return repo.MapError(err, "")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.issue(ctx, role, who.id, now)
	if err != nil {
		return nil, err
	}
	resp.User = who.user
	resp.Message = who.message
	return resp, nil
}

func resolveIdentity(ctx context.Context, r Repository, role enums.Role, mobile string, profile map[string]string) (identity, error) {
	switch role {
	case enums.RoleCustomer:
		customer, err := r.FindCustomerByPhone(ctx, mobile)
		if err == nil {
			if customer.Status != enums.CustomerStatusActive {
				return identity{}, accountStatusError(string(customer.Status))
			}
			return identity{id: customer.ID, user: customers.FromModel(*customer), message: messageLogin}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return identity{}, repo.MapError(err, "")
		}
		customer = &models.Customer{
			Name:   fallback(profile["name"], defaultCustomerName),
			Email:  optional(profile["email"]),
			Phone:  mobile,
			Status: enums.CustomerStatusActive,
		}
		if err := r.CreateCustomer(ctx, customer); err != nil {
			return identity{}, repo.MapError(err, "")
		}
		return identity{id: customer.ID, user: customers.FromModel(*customer), message: messageRegistered}, nil

	case enums.RoleVendor:
		vendor, err := r.FindVendorByPhone(ctx, mobile)
		if err == nil {
			if vendor.Status != enums.VendorStatusActive {
				return identity{}, accountStatusError(string(vendor.Status))
			}
			return identity{id: vendor.ID, user: vendors.FromModel(*vendor), message: messageLogin}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return identity{}, repo.MapError(err, "")
		}
		vendor = &models.Vendor{
			Name:           fallback(profile["name"], defaultVendorName),
			Email:          optional(profile["email"]),
			Phone:          mobile,
			BusinessName:   fallback(profile["business_name"], defaultVendorBusinessName),
			CommissionRate: vendors.DefaultCommissionRate,
			Status:         enums.VendorStatusPending,
		}
		if err := r.CreateVendor(ctx, vendor); err != nil {
			return identity{}, repo.MapError(err, "")
		}
		return identity{id: vendor.ID, user: vendors.FromModel(*vendor), message: messageVendorRegistered}, nil

	case enums.RoleDelivery:
		partner, err := r.FindPartnerByPhone(ctx, mobile)
		if err != nil {
			return identity{}, repo.MapError(err, partnerMissingMessage)
		}
		if partner.Status != enums.PartnerStatusApproved {
			return identity{}, accountStatusError(string(partner.Status))
		}
		return identity{id: partner.ID, user: partners.FromModel(*partner), message: messageLogin}, nil
	}
	return identity{}, pkgerrors.Newf(pkgerrors.CodeForbidden, "%s accounts cannot sign in with OTP", role)
}

func (s *service) AdminLogin(ctx context.Context, req AdminLoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	admin, err := s.repo.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, repo.MapError(err, "")
	}
	valid, err := security.VerifyPassword(req.Password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if admin.Status != enums.AdminStatusActive {
		return nil, accountStatusError(string(admin.Status))
	}

	now := s.now()
	if err := s.repo.StampLogin(ctx, enums.RoleAdmin, admin.ID, now, nil); err != nil {
		return nil, repo.MapError(err, "")
	}
	admin.LastLoginAt = &now

	resp, err := s.issue(ctx, enums.RoleAdmin, admin.ID, now)
	if err != nil {
		return nil, err
	}
	resp.User = AdminFromModel(*admin)
	resp.Message = messageLogin
	return resp, nil
}

func (s *service) Logout(ctx context.Context, jti string) error {
	if err := s.sessions.Revoke(ctx, jti); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) EnsureAdmin(ctx context.Context, name, email, password string) (*AdminDTO, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.repo.FindAdminByEmail(ctx, email)
	if err == nil {
		dto := AdminFromModel(*existing)
		return &dto, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, repo.MapError(err, "")
	}
	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}
	admin := &models.Admin{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Status:       enums.AdminStatusActive,
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		return nil, false, repo.MapError(err, "")
	}
	dto := AdminFromModel(*admin)
	return &dto, true, nil
}

// issue registers a new session, which drops the identity's previous one, and
// mints the bearer token carrying its id.
func (s *service) issue(ctx context.Context, role enums.Role, identityID uuid.UUID, now time.Time) (*AuthResponse, error) {
	jti, err := s.sessions.Issue(ctx, role, identityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}
	token, _, err := pkgAuth.MintToken(s.jwtCfg, now, pkgAuth.TokenPayload{
		Subject: identityID,
		Role:    role,
		JTI:     jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.sessions.TTL().Seconds()),
		Role:      role,
	}, nil
}

func accountStatusError(status string) error {
	return pkgerrors.Newf(pkgerrors.CodeForbidden, "Your account is %s", status)
}

func profileFields(fields map[string]*string) map[string]string {
	out := map[string]string{}
	for key, value := range fields {
		if value == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*value); trimmed != "" {
			out[key] = trimmed
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
