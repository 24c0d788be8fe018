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
	"puremilk/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CustomerService interface {
	List(ctx context.Context, req *request.ListCustomersRequest) (*response.PaginatedResponse[response.CustomerResponse], error)
	Create(ctx context.Context, actor *utils.Principal, req *request.CreateCustomerRequest) (*response.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*response.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *request.UpdateCustomerRequest) (*response.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Profile(ctx context.Context, principal *utils.Principal) (*response.CustomerResponse, error)
}

type customerService struct {
	repo         repository.CustomerRepository
	auth         AuthService
	maxCustomers int64
	log          *zap.Logger
	now          func() time.Time
}

func NewCustomerService(repo repository.CustomerRepository, auth AuthService, maxCustomers int64, log *zap.Logger) CustomerService {
	return &customerService{
		repo:         repo,
		auth:         auth,
		maxCustomers: maxCustomers,
		log:          log.With(zap.String("service", "customer")),
		now:          time.Now,
	}
}

func (cs *customerService) List(ctx context.Context, req *request.ListCustomersRequest) (*response.PaginatedResponse[response.CustomerResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	limit := req.Limit()
	customers, err := cs.repo.FindAll(ctx, req.Search, limit, req.Offset())
	if err != nil {
		return nil, storeError("list customers", err)
	}

	total, err := cs.repo.Count(ctx, req.Search)
	if err != nil {
		return nil, storeError("count customers", err)
	}

	return response.NewPaginatedResponse(response.CustomersToResponse(customers), req.Page, limit, total), nil
}

// Create provisions the login account first, then the profile. If the profile
// insert fails the account is removed again.
func (cs *customerService) Create(ctx context.Context, actor *utils.Principal, req *request.CreateCustomerRequest) (*response.CustomerResponse, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	// 1. Capacity
	total, err := cs.repo.Count(ctx, "")
	if err != nil {
		return nil, storeError("count customers", err)
	}
	if total >= cs.maxCustomers {
		cs.log.Warn("Customer limit reached", zap.Int64("total", total), zap.Int64("max", cs.maxCustomers))
		return nil, ErrCustomerLimit
	}

	// 2. Email must be free for profiles; accounts are checked by the auth core
	existing, err := cs.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storeError("check customer email", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	// 3. Login account
	user, err := cs.auth.CreateAccount(ctx, AccountInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		return nil, err
	}

	// 4. Profile
	now := cs.now()
	customer := &entity.Customer{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		MilkType:        entity.MilkType(req.MilkType),
		DailyQuantity:   req.DailyQuantity,
		RatePerLiter:    req.RatePerLiter,
		MorningDelivery: boolOr(req.MorningDelivery, true),
		EveningDelivery: boolOr(req.EveningDelivery, false),
		IsActive:        true,
		CreatedBy:       actor.UserID,
	}
	if err := cs.repo.Create(ctx, customer); err != nil {
		if _, derr := cs.auth.DeleteAccountByEmail(ctx, user.Email); derr != nil {
			cs.log.Error("Failed to roll back customer account",
				zap.Error(derr),
				zap.String("email", user.Email),
			)
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, storeError("create customer", err)
	}

	cs.log.Info("Customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("created_by", actor.UserID.String()),
	)

	resp := response.CustomerToResponse(customer)
	return &resp, nil
}

func (cs *customerService) Get(ctx context.Context, id uuid.UUID) (*response.CustomerResponse, error) {
	customer, err := cs.find(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.CustomerToResponse(customer)
	return &resp, nil
}

func (cs *customerService) Update(ctx context.Context, id uuid.UUID, req *request.UpdateCustomerRequest) (*response.CustomerResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	customer, err := cs.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.MilkType != nil {
		customer.MilkType = entity.MilkType(*req.MilkType)
	}
	if req.DailyQuantity != nil {
		customer.DailyQuantity = *req.DailyQuantity
	}
	if req.RatePerLiter != nil {
		customer.RatePerLiter = *req.RatePerLiter
	}
	if req.MorningDelivery != nil {
		customer.MorningDelivery = *req.MorningDelivery
	}
	if req.EveningDelivery != nil {
		customer.EveningDelivery = *req.EveningDelivery
	}

	activeChanged := req.IsActive != nil && *req.IsActive != customer.IsActive
	if activeChanged {
		customer.IsActive = *req.IsActive
	}

	customer.UpdatedAt = cs.now()
	if err := cs.repo.Update(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError("update customer", err)
	}

	// the paired account follows the profile's active flag
	if activeChanged {
		err := cs.auth.SetAccountActive(ctx, customer.Email, customer.IsActive)
		if errors.Is(err, ErrNotFound) {
			cs.log.Warn("Customer has no login account", zap.String("email", customer.Email))
		} else if err != nil {
			customer.IsActive = !customer.IsActive
			if restoreErr := cs.repo.Update(ctx, customer); restoreErr != nil {
				cs.log.Error("Failed to restore customer active flag",
					zap.Error(restoreErr),
					zap.String("customer_id", id.String()),
				)
			}
			return nil, err
		}
	}

	cs.log.Info("Customer updated", zap.String("customer_id", id.String()))

	resp := response.CustomerToResponse(customer)
	return &resp, nil
}

// Delete removes the profile and its login account.
func (cs *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	customer, err := cs.find(ctx, id)
	if err != nil {
		return err
	}

	if err := cs.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storeError("delete customer", err)
	}

	deleted, err := cs.auth.DeleteAccountByEmail(ctx, customer.Email)
	if err != nil {
		return fmt.Errorf("delete customer account: %w", err)
	}

	cs.log.Info("Customer deleted",
		zap.String("customer_id", id.String()),
		zap.Bool("account_deleted", deleted),
	)
	return nil
}

func (cs *customerService) Profile(ctx context.Context, principal *utils.Principal) (*response.CustomerResponse, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	customer, err := cs.repo.FindByEmail(ctx, principal.Email)
	if err != nil {
		return nil, storeError("find customer", err)
	}
	if customer == nil {
		return nil, ErrNotFound
	}

	resp := response.CustomerToResponse(customer)
	return &resp, nil
}

func (cs *customerService) find(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := cs.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find customer", err)
	}
	if customer == nil {
		return nil, ErrNotFound
	}
	return customer, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
