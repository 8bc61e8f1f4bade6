package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "tradegate/internal/delivery/context"
	"tradegate/internal/domain/entity"
	domainerrors "tradegate/internal/domain/errors"
	"tradegate/internal/domain/policy"
	"tradegate/internal/domain/repository"
	"tradegate/internal/domain/service"
	"tradegate/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// adminService implements the AdminUsecase interface.
type adminService struct {
	adminRepo        repository.AdminRepository
	userRepo         repository.UserRepository
	contactRepo      repository.ContactRepository
	categoryRepo     repository.CategoryRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	events           service.EventPublisher
	logger           *slog.Logger
}

// AdminServiceParams holds dependencies for AdminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	ContactRepo      repository.ContactRepository
	CategoryRepo     repository.CategoryRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Events           service.EventPublisher
	Logger           *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		adminRepo:        params.AdminRepo,
		userRepo:         params.UserRepo,
		contactRepo:      params.ContactRepo,
		categoryRepo:     params.CategoryRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		events:           params.Events,
		logger:           params.Logger,
	}
}

func (srv *adminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AdminLogin authenticates a full administrator.
func (srv *adminService) AdminLogin(ctx context.Context, input *usecase.AdminLoginInput) (*usecase.AdminLoginOutput, error) {
	srv.log(ctx).Debug("Admin login attempt", slog.String("username", input.Username))

	account, err := srv.adminRepo.FindAdminByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "admin login failed")
		}

		return nil, errors.Wrap(err, "failed to load admin account")
	}

	if !account.IsActive {
		return nil, errors.Wrap(domainerrors.ErrAccountInactive, "admin login failed")
	}
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Admin login rejected", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "admin login failed")
	}

	out, err := srv.openBackOfficeSession(ctx, account.ID, entity.RoleAdmin, nil)
	if err != nil {
		return nil, err
	}

	if err := srv.adminRepo.TouchAdminLogin(ctx, account.ID, time.Now()); err != nil {
		srv.log(ctx).Warn("Failed to record admin login time", slog.Any("error", err))
	}
	srv.log(ctx).Info("Admin logged in", slog.Any("adminID", account.ID))

	return out, nil
}

// SubAdminLogin authenticates a country-scoped administrator. The country
// grant is snapshotted into the session; later grant edits do not touch
// sessions already issued.
func (srv *adminService) SubAdminLogin(ctx context.Context, input *usecase.AdminLoginInput) (*usecase.AdminLoginOutput, error) {
	srv.log(ctx).Debug("Sub-admin login attempt", slog.String("username", input.Username))

	account, err := srv.adminRepo.FindSubAdminByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "sub-admin login failed")
		}

		return nil, errors.Wrap(err, "failed to load sub-admin account")
	}

	if !account.IsActive {
		return nil, errors.Wrap(domainerrors.ErrAccountInactive, "sub-admin login failed")
	}
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Sub-admin login rejected", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "sub-admin login failed")
	}

	out, err := srv.openBackOfficeSession(ctx, account.ID, entity.RoleSubAdmin, account.AssignedCountries)
	if err != nil {
		return nil, err
	}

	if err := srv.adminRepo.TouchSubAdminLogin(ctx, account.ID, time.Now()); err != nil {
		srv.log(ctx).Warn("Failed to record sub-admin login time", slog.Any("error", err))
	}
	srv.log(ctx).Info("Sub-admin logged in", slog.Any("subAdminID", account.ID), slog.Any("countries", account.AssignedCountries))

	return out, nil
}

// openBackOfficeSession issues tokens for an admin or sub-admin and persists
// the session record. Back-office sessions share the refresh token store
// with marketplace accounts.
func (srv *adminService) openBackOfficeSession(ctx context.Context, accountID uuid.UUID, role entity.Role, countries []string) (*usecase.AdminLoginOutput, error) {
	loginTime := time.Now()

	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(accountID, role, countries, loginTime)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate back-office tokens")
	}

	// The grant snapshot lives on the session row; token refreshes reissue
	// from it, so later grant edits never touch a running session.
	newRefreshToken := &entity.RefreshToken{
		UserID:            accountID,
		TokenHash:         srv.tokenService.HashToken(refreshTokenString),
		LoginTime:         loginTime,
		AssignedCountries: countries,
		ExpiresAt:         loginTime.Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := srv.refreshTokenRepo.CreateRefreshToken(ctx, newRefreshToken); err != nil {
		return nil, errors.Wrap(err, "failed to store back-office refresh token")
	}

	return &usecase.AdminLoginOutput{
		AccessToken:       accessToken,
		RefreshToken:      refreshTokenString,
		Role:              role,
		AssignedCountries: countries,
	}, nil
}

// ListProfiles returns trade profiles visible to the principal. A sub-admin
// sees only profiles in the assigned countries, pending ones by default.
func (srv *adminService) ListProfiles(ctx context.Context, p policy.Principal, input *usecase.ProfileListInput) ([]*entity.User, error) {
	if p.Kind != policy.KindAdmin && p.Kind != policy.KindSubAdmin {
		return nil, domainerrors.ErrForbidden
	}

	filter := policy.ListFilter(p, policy.ResourceProfile)
	if input.Status != "" {
		filter = filter.WidenStatuses(input.Status)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	users, err := srv.userRepo.ListProfiles(ctx, repository.ProfileQuery{
		Filter:   filter,
		UserType: input.UserType,
		Search:   input.Search,
		Limit:    limit,
		Offset:   input.Offset,
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list profiles", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list profiles")
	}

	return users, nil
}

// DecideProfile moves a user's approval status through a conditional update.
// Zero rows affected means a concurrent decision landed first: already at
// the target reports success, anything else is a conflict.
func (srv *adminService) DecideProfile(ctx context.Context, p policy.Principal, userID uuid.UUID, to entity.ApprovalStatus) error {
	if !to.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown approval status")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("profile not found")
		}

		return errors.Wrap(err, "failed to load profile for decision")
	}
	if user.Profile == nil {
		return domainerrors.ErrNotFound.WrapMessage("profile not found")
	}

	resource := policy.ProfileResource(user.Profile)
	if !policy.CanRead(p, resource) {
		// A profile outside the principal's scope does not exist for it.
		return domainerrors.ErrNotFound.WrapMessage("profile not found")
	}

	// The transition table rules first: a same-status decision is not an
	// edge, so it fails here. Idempotent success is reserved for the lost
	// race resolved after the conditional update below.
	from := user.Profile.ApprovalStatus
	if err := policy.AuthorizeTransition(p, resource, from.String(), to.String()); err != nil {
		return domainerrors.FromPolicy(err)
	}

	affected, err := srv.userRepo.UpdateApprovalStatusIf(ctx, userID, from, to)
	if err != nil {
		return errors.Wrap(err, "failed to update approval status")
	}
	if affected == 0 {
		current, err := srv.userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to re-read profile after lost decision")
		}
		if current.Profile != nil && current.Profile.ApprovalStatus == to {
			return nil
		}

		return domainerrors.ErrInvalidTransition.WrapMessage("approval status changed concurrently")
	}

	// Deleting a profile also revokes every open session of the account.
	if to == entity.ApprovalDeleted {
		if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
			srv.log(ctx).Error("Failed to revoke sessions of deleted account", slog.Any("userID", userID), slog.Any("error", err))
		}
	}

	srv.publishDecisionEvent(ctx, p, user, to)
	srv.log(ctx).Info("Profile decision applied",
		slog.Any("userID", userID),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.Any("actorID", p.ID),
	)

	return nil
}

// CreateSubAdmin provisions a new country-scoped administrator. Admin only.
func (srv *adminService) CreateSubAdmin(ctx context.Context, p policy.Principal, input *usecase.CreateSubAdminInput) (*entity.SubAdminAccount, error) {
	if p.Kind != policy.KindAdmin {
		return nil, domainerrors.ErrForbidden
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "password does not meet security requirements")
	}
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash sub-admin password")
	}

	account := &entity.SubAdminAccount{
		Username:          input.Username,
		PasswordHash:      hashedPassword,
		Email:             input.Email,
		FullName:          input.FullName,
		CreatedBy:         p.ID,
		AssignedCountries: input.AssignedCountries,
		IsActive:          true,
	}

	if err := srv.adminRepo.CreateSubAdmin(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAdminExists) {
			return nil, domainerrors.ErrConflict.WrapMessage("sub-admin username already exists")
		}

		return nil, errors.Wrap(err, "failed to create sub-admin")
	}
	srv.log(ctx).Info("Sub-admin created",
		slog.Any("subAdminID", account.ID),
		slog.Any("createdBy", p.ID),
		slog.Any("countries", account.AssignedCountries),
	)

	return account, nil
}

// ListSubAdmins returns every sub-admin grant. Admin only.
func (srv *adminService) ListSubAdmins(ctx context.Context, p policy.Principal) ([]*entity.SubAdminAccount, error) {
	if p.Kind != policy.KindAdmin {
		return nil, domainerrors.ErrForbidden
	}

	accounts, err := srv.adminRepo.ListSubAdmins(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sub-admins")
	}

	return accounts, nil
}

// UpdateSubAdminCountries replaces a sub-admin's country grant. Sessions
// already issued keep their snapshot until they expire.
func (srv *adminService) UpdateSubAdminCountries(ctx context.Context, p policy.Principal, id uuid.UUID, countries []string) error {
	if p.Kind != policy.KindAdmin {
		return domainerrors.ErrForbidden
	}

	if err := srv.adminRepo.UpdateSubAdminCountries(ctx, id, countries); err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("sub-admin not found")
		}

		return errors.Wrap(err, "failed to update sub-admin countries")
	}
	srv.log(ctx).Info("Sub-admin grant updated", slog.Any("subAdminID", id), slog.Any("countries", countries), slog.Any("actorID", p.ID))

	return nil
}

// SetSubAdminActive activates or revokes a sub-admin. Revocation also ends
// the account's open sessions.
func (srv *adminService) SetSubAdminActive(ctx context.Context, p policy.Principal, id uuid.UUID, active bool) error {
	if p.Kind != policy.KindAdmin {
		return domainerrors.ErrForbidden
	}

	if err := srv.adminRepo.SetSubAdminActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("sub-admin not found")
		}

		return errors.Wrap(err, "failed to update sub-admin state")
	}

	if !active {
		if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, id); err != nil {
			srv.log(ctx).Error("Failed to revoke sessions of deactivated sub-admin", slog.Any("subAdminID", id), slog.Any("error", err))
		}
	}
	srv.log(ctx).Info("Sub-admin state changed", slog.Any("subAdminID", id), slog.Bool("active", active), slog.Any("actorID", p.ID))

	return nil
}

// ListContactMessages returns the contact inbox. Admin only.
func (srv *adminService) ListContactMessages(ctx context.Context, p policy.Principal, unreadOnly bool, limit, offset int) ([]*entity.ContactMessage, error) {
	if p.Kind != policy.KindAdmin {
		return nil, domainerrors.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	messages, err := srv.contactRepo.List(ctx, unreadOnly, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contact messages")
	}

	return messages, nil
}

// MarkContactMessageRead flags an inbox message as read. Admin only.
func (srv *adminService) MarkContactMessageRead(ctx context.Context, p policy.Principal, id uuid.UUID) error {
	if p.Kind != policy.KindAdmin {
		return domainerrors.ErrForbidden
	}

	if err := srv.contactRepo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("contact message not found")
		}

		return errors.Wrap(err, "failed to mark contact message read")
	}

	return nil
}

// ApproveCategory flips a category's approval flag. Admin only.
func (srv *adminService) ApproveCategory(ctx context.Context, p policy.Principal, id uuid.UUID, approved bool) error {
	if p.Kind != policy.KindAdmin {
		return domainerrors.ErrForbidden
	}

	if err := srv.categoryRepo.SetApproved(ctx, id, approved); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("category not found")
		}

		return errors.Wrap(err, "failed to update category approval")
	}
	srv.log(ctx).Info("Category approval changed", slog.Any("categoryID", id), slog.Bool("approved", approved), slog.Any("actorID", p.ID))

	return nil
}

func (srv *adminService) publishDecisionEvent(ctx context.Context, p policy.Principal, user *entity.User, to entity.ApprovalStatus) {
	if srv.events == nil {
		return
	}

	var eventType string
	switch to {
	case entity.ApprovalApproved:
		eventType = service.EventUserApproved
	case entity.ApprovalRejected:
		eventType = service.EventUserRejected
	case entity.ApprovalDeleted:
		eventType = service.EventUserDeleted
	default:
		return
	}

	event := &service.MarketplaceEvent{
		Type:        eventType,
		ActorID:     p.ID.String(),
		SubjectKind: "profile",
		SubjectID:   user.ID.String(),
		Country:     user.Profile.Country,
		OccurredAt:  time.Now(),
	}

	// Push delivery to the decided account happens asynchronously in the
	// worker consuming these events.
	if err := srv.events.PublishMarketplaceEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish decision event", slog.String("type", eventType), slog.Any("error", err))
	}
}
