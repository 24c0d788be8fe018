package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"puremilk/internal/data/entity"
	"puremilk/internal/data/repository"
	"puremilk/internal/dto/request"
	"puremilk/internal/dto/response"
	"puremilk/pkg/metrics"
	"puremilk/pkg/security"
	"puremilk/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*utils.Principal, error)
	Logout(ctx context.Context, principal *utils.Principal) error
	Me(ctx context.Context, principal *utils.Principal) (*response.ProfileResponse, error)
	AdminExists(ctx context.Context) (bool, error)

	// Account management used by the customer CRUD layer.
	CreateAccount(ctx context.Context, input AccountInput) (*entity.User, error)
	DeleteAccountByEmail(ctx context.Context, email string) (bool, error)
	SetAccountActive(ctx context.Context, email string, active bool) error
	EmailStatus(ctx context.Context, email string) (*entity.EmailStatus, error)
}

// AccountInput describes an admin-initiated customer account.
type AccountInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

type authService struct {
	repo    *repository.Repository // grouping user, customer & revocation repos
	hasher  *security.PasswordHasher
	tokens  *security.TokenService
	policy  LockPolicy
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

// AuthOption customises the auth service.
type AuthOption func(*authService)

// WithClock overrides the time source used for lock decisions.
func WithClock(now func() time.Time) AuthOption {
	return func(s *authService) {
		s.now = now
	}
}

func NewAuthService(
	repo *repository.Repository,
	hasher *security.PasswordHasher,
	tokens *security.TokenService,
	policy LockPolicy,
	m *metrics.Metrics,
	log *zap.Logger,
	opts ...AuthOption,
) AuthService {
	s := &authService{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		policy:  policy,
		metrics: m,
		log:     log.With(zap.String("service", "auth")),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}
	role := entity.UserRole(req.Role)

	// 2. Only the first registrant may take the admin role
	if role == entity.RoleAdmin {
		exists, err := s.repo.User.ExistsByRole(ctx, entity.RoleAdmin)
		if err != nil {
			return nil, storeError("check admin exists", err)
		}
		if exists {
			s.log.Warn("Admin registration rejected, admin already exists", zap.String("email", req.Email))
			return nil, ErrAdminExists
		}
	}

	// 3. Email must be unused
	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storeError("check email", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	// 4. Hash password
	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 5. Save user; constraints catch concurrent registrations that passed the checks above
	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Name:         req.Name,
		Phone:        req.Phone,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, s.createError(err)
	}
	s.metrics.Registrations.WithLabelValues(string(role)).Inc()

	// 6. Issue token
	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
	)
	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	// 1. Lookup; unknown emails still pay for one bcrypt comparison
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.loginOutcome(metrics.OutcomeError)
		return nil, storeError("find user", err)
	}
	if user == nil {
		s.hasher.VerifyDecoy(ctx, req.Password)
		s.loginOutcome(metrics.OutcomeInvalidCredentials)
		s.log.Warn("Login failed - unknown email", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	// 2. Locked accounts are refused without checking the password
	now := s.now()
	if s.policy.IsLocked(user, now) {
		s.loginOutcome(metrics.OutcomeLocked)
		s.log.Warn("Login refused - account locked",
			zap.String("user_id", user.ID.String()),
			zap.Timep("locked_until", user.LockedUntil),
		)
		return nil, ErrAccountLocked
	}

	// 3. Verify password
	if !s.hasher.Verify(ctx, req.Password, user.PasswordHash) {
		if err := ctx.Err(); err != nil {
			return nil, storeError("verify password", err)
		}
		return nil, s.recordFailure(ctx, user, now)
	}

	// 4. Disabled accounts are reported only after a correct password
	if !user.IsActive {
		s.loginOutcome(metrics.OutcomeDisabled)
		s.log.Warn("Login refused - account disabled", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountDisabled
	}

	// 5. Reset lock state and stamp last login
	if err := s.repo.User.RecordSuccessfulLogin(ctx, user.ID, now); err != nil {
		s.loginOutcome(metrics.OutcomeError)
		return nil, storeError("record successful login", err)
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now

	s.rehashIfNeeded(ctx, user, req.Password)

	resp, err := s.issue(user)
	if err != nil {
		s.loginOutcome(metrics.OutcomeError)
		return nil, err
	}

	s.loginOutcome(metrics.OutcomeSuccess)
	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return resp, nil
}

// recordFailure applies the lock policy transition for a wrong password.
func (s *authService) recordFailure(ctx context.Context, user *entity.User, now time.Time) error {
	failure, err := s.repo.User.RecordFailedLogin(ctx, user.ID, s.policy.Threshold, s.policy.LockUntil(now), now)
	if err != nil {
		s.loginOutcome(metrics.OutcomeError)
		return storeError("record failed login", err)
	}

	// another request locked the account after we read it
	if failure == nil {
		s.loginOutcome(metrics.OutcomeLocked)
		return ErrAccountLocked
	}

	// a lock in the future can only have been set by this update
	if s.policy.Locks(failure.FailedLoginAttempts) && failure.LockedUntil != nil && failure.LockedUntil.After(now) {
		s.metrics.AccountLocks.Inc()
		s.log.Warn("Account locked after repeated failed logins",
			zap.String("user_id", user.ID.String()),
			zap.Int("failed_attempts", failure.FailedLoginAttempts),
			zap.Timep("locked_until", failure.LockedUntil),
		)
	} else {
		s.log.Warn("Login failed - wrong password",
			zap.String("user_id", user.ID.String()),
			zap.Int("failed_attempts", failure.FailedLoginAttempts),
		)
	}

	s.loginOutcome(metrics.OutcomeInvalidCredentials)
	return ErrInvalidCredentials
}

// rehashIfNeeded upgrades a hash produced at a different cost. Failures are logged only.
func (s *authService) rehashIfNeeded(ctx context.Context, user *entity.User, password string) {
	if !s.hasher.NeedsRehash(user.PasswordHash) {
		return
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		s.log.Warn("Failed to rehash password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return
	}
	if err := s.repo.User.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.log.Warn("Failed to store rehashed password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return
	}
	user.PasswordHash = hash
}

func (s *authService) Authenticate(ctx context.Context, token string) (*utils.Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, ErrTokenExpired) {
			reason = "expired"
		}
		s.metrics.AuthFailures.WithLabelValues(reason).Inc()
		s.log.Debug("Token rejected", zap.String("reason", reason), zap.Error(err))
		return nil, err
	}
	if !entity.UserRole(claims.Role).Valid() {
		s.metrics.AuthFailures.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: unknown role %q", ErrTokenInvalid, claims.Role)
	}

	revoked, err := s.repo.Revocation.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, storeError("check revocation", err)
	}
	if revoked {
		s.metrics.AuthFailures.WithLabelValues("revoked").Inc()
		return nil, ErrTokenRevoked
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		s.metrics.AuthFailures.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: subject is not a uuid", ErrTokenInvalid)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError("find user", err)
	}
	if user == nil {
		s.metrics.AuthFailures.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}

	now := s.now()
	if !user.IsActive {
		s.metrics.AuthFailures.WithLabelValues("disabled").Inc()
		return nil, ErrAccountDisabled
	}
	if s.policy.IsLocked(user, now) {
		s.metrics.AuthFailures.WithLabelValues("locked").Inc()
		return nil, ErrAccountLocked
	}

	if err := s.repo.User.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to update last login", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	principal := &utils.Principal{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    string(user.Role),
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	return principal, nil
}

// Logout revokes the principal's token until it would have expired.
func (s *authService) Logout(ctx context.Context, principal *utils.Principal) error {
	if principal == nil {
		return ErrUnauthenticated
	}

	ttl := principal.ExpiresAt.Sub(s.now())
	if err := s.repo.Revocation.Revoke(ctx, principal.TokenID, ttl); err != nil {
		return storeError("revoke token", err)
	}

	s.log.Info("User logged out", zap.String("user_id", principal.UserID.String()))
	return nil
}

func (s *authService) Me(ctx context.Context, principal *utils.Principal) (*response.ProfileResponse, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.User.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, storeError("find user", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	profile := response.UserToProfile(user)
	return &profile, nil
}

func (s *authService) AdminExists(ctx context.Context) (bool, error) {
	exists, err := s.repo.User.ExistsByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return false, storeError("check admin exists", err)
	}
	return exists, nil
}

func (s *authService) CreateAccount(ctx context.Context, input AccountInput) (*entity.User, error) {
	email := utils.NormalizeEmail(input.Email)
	if !utils.IsPasswordAcceptable(input.Password) {
		return nil, newValidationError(map[string]string{
			"password": "Password must contain at least one letter and one number",
		})
	}

	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleCustomer,
		Name:         input.Name,
		Phone:        input.Phone,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, s.createError(err)
	}
	s.metrics.Registrations.WithLabelValues(string(entity.RoleCustomer)).Inc()

	s.log.Info("Customer account created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)
	return user, nil
}

func (s *authService) DeleteAccountByEmail(ctx context.Context, email string) (bool, error) {
	deleted, err := s.repo.User.DeleteByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return false, storeError("delete account", err)
	}
	return deleted, nil
}

func (s *authService) SetAccountActive(ctx context.Context, email string, active bool) error {
	err := s.repo.User.SetActiveByEmail(ctx, utils.NormalizeEmail(email), active)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storeError("set account active", err)
	}

	s.log.Info("Account active flag changed", zap.String("email", email), zap.Bool("active", active))
	return nil
}

func (s *authService) EmailStatus(ctx context.Context, email string) (*entity.EmailStatus, error) {
	email = utils.NormalizeEmail(email)
	status := &entity.EmailStatus{Email: email}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError("find user", err)
	}
	if user != nil {
		id := user.ID.String()
		status.UserID = &id
		status.UserActive = user.IsActive
		status.UserInactive = !user.IsActive
	}

	customer, err := s.repo.Customer.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError("find customer", err)
	}
	if customer != nil {
		id := customer.ID.String()
		status.CustomerID = &id
		status.CustomerActive = customer.IsActive
		status.CustomerInactive = !customer.IsActive
	}

	return status, nil
}

func (s *authService) issue(user *entity.User) (*response.AuthResponse, error) {
	token, claims, err := s.tokens.Issue(user.ID.String(), string(user.Role))
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &response.AuthResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      response.UserToView(user),
	}, nil
}

func (s *authService) createError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrAdminExists):
		return ErrAdminExists
	default:
		return storeError("create user", err)
	}
}

func (s *authService) loginOutcome(outcome string) {
	s.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
}
