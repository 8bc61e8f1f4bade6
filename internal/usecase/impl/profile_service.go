package impl

import (
	"context"
	"log/slog"

	deliverycontext "tradegate/internal/delivery/context"
	"tradegate/internal/domain/entity"
	domainerrors "tradegate/internal/domain/errors"
	"tradegate/internal/domain/policy"
	"tradegate/internal/domain/repository"
	"tradegate/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Logger   *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		userRepo: params.UserRepo,
		logger:   params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetOwnProfile returns the principal's account with its trade profile.
func (srv *profileService) GetOwnProfile(ctx context.Context, p policy.Principal) (*entity.User, error) {
	if p.Kind != policy.KindUser {
		return nil, domainerrors.ErrForbidden.WrapMessage("only marketplace accounts have a trade profile")
	}

	user, err := srv.userRepo.FindByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load own profile")
	}

	return user, nil
}

// UpdateOwnProfile edits the principal's profile fields. Approval status is
// untouchable from here; repositories never write it through Update.
func (srv *profileService) UpdateOwnProfile(ctx context.Context, p policy.Principal, input *usecase.UpdateProfileInput) (*entity.User, error) {
	if p.Kind != policy.KindUser {
		return nil, domainerrors.ErrForbidden.WrapMessage("only marketplace accounts have a trade profile")
	}

	user, err := srv.userRepo.FindByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load profile for update")
	}
	if user.Profile == nil {
		return nil, domainerrors.ErrNotFound.WrapMessage("no trade profile registered for this account")
	}
	if !policy.CanWrite(p, policy.ProfileResource(user.Profile), policy.FieldEdit()) {
		return nil, domainerrors.ErrForbidden
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Country != "" {
		user.Profile.Country = input.Country
	}
	if input.CompanyName != "" {
		user.Profile.CompanyName = input.CompanyName
	}
	if input.Phone != "" {
		user.Profile.Phone = input.Phone
	}
	if input.ContactEmail != "" {
		user.Profile.ContactEmail = input.ContactEmail
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to update profile", slog.Any("userID", p.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update profile")
	}
	srv.log(ctx).Debug("Profile updated", slog.Any("userID", p.ID))

	return user, nil
}

// UpdateDeviceToken stores or clears the principal's push token.
func (srv *profileService) UpdateDeviceToken(ctx context.Context, p policy.Principal, token string) error {
	if p.Kind != policy.KindUser {
		return domainerrors.ErrForbidden.WrapMessage("only marketplace accounts register devices")
	}

	if err := srv.userRepo.UpdateDeviceToken(ctx, p.ID, token); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("account no longer exists")
		}
		srv.log(ctx).Error("Failed to update device token", slog.Any("userID", p.ID), slog.Any("error", err))

		return errors.Wrap(err, "failed to update device token")
	}

	return nil
}
