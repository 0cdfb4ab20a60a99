package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/identity"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// UserService implements staff-account management and authentication
type UserService struct {
	userRepo       identity.UserRepository
	tokens         *TokenIssuer
	eventPublisher shared.EventPublisher
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, tokens *TokenIssuer, eventPublisher shared.EventPublisher) *UserService {
	return &UserService{
		userRepo:       userRepo,
		tokens:         tokens,
		eventPublisher: eventPublisher,
	}
}

// Create adds a staff account to an institute
func (s *UserService) Create(ctx context.Context, instituteID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, instituteID, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	user, err := identity.NewInstituteUser(instituteID, req.Name, req.Email, req.Phone, req.Password, identity.Role(req.Role), req.Permissions)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.publishEvents(ctx, user)

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID fetches one staff account scoped to an institute
func (s *UserService) GetByID(ctx context.Context, instituteID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForInstitute(ctx, id, instituteID)
	if err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns an institute's staff accounts
func (s *UserService) List(ctx context.Context, instituteID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	users, err := s.userRepo.FindAllForInstitute(ctx, instituteID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.CountForInstitute(ctx, instituteID)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// Update applies a partial account update. An empty or absent password
// leaves the stored hash untouched; anything else is re-hashed.
func (s *UserService) Update(ctx context.Context, instituteID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForInstitute(ctx, id, instituteID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, instituteID, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
		}
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	if req.Name != nil || req.Phone != nil {
		name := user.Name
		phone := user.Phone
		if req.Name != nil {
			name = *req.Name
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := user.SetProfile(name, phone); err != nil {
			return nil, err
		}
	}

	if req.Role != nil {
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}

	if req.Permissions != nil {
		user.SetPermissions(*req.Permissions)
	}

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// SetStatus writes an explicit account state
func (s *UserService) SetStatus(ctx context.Context, instituteID, id uuid.UUID, req SetStatusRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForInstitute(ctx, id, instituteID)
	if err != nil {
		return nil, err
	}

	if err := user.SetStatus(identity.UserStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a staff account
func (s *UserService) Delete(ctx context.Context, instituteID, id uuid.UUID) error {
	if _, err := s.userRepo.FindByIDForInstitute(ctx, id, instituteID); err != nil {
		return err
	}

	return s.userRepo.DeleteForInstitute(ctx, id, instituteID)
}

// Login authenticates a staff member and issues a token. A wrong email, a
// wrong password and an inactive account all produce the same error so the
// response does not reveal which credential failed.
func (s *UserService) Login(ctx context.Context, instituteID uuid.UUID, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, instituteID, req.Email)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid credentials")
	}

	if !user.VerifyPassword(req.Password) {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid credentials")
	}

	if !user.IsActive() {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid credentials")
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToUserResponse(user),
	}, nil
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.InstituteUser) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range user.GetDomainEvents() {
		// Event handling is fire-and-forget; a failed publish never fails the write.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	user.ClearDomainEvents()
}
