package impl

import (
	"context"
	"testing"

	"tradegate/internal/domain/entity"
	domainerrors "tradegate/internal/domain/errors"
	"tradegate/internal/domain/service"
	"tradegate/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminEnv struct {
	admins     *fakeAdminRepo
	users      *fakeUserRepo
	contacts   *fakeContactRepo
	categories *fakeCategoryRepo
	tokens     *fakeRefreshTokenRepo
	events     *fakeEvents
	svc        usecase.AdminUsecase
}

func newAdminEnv() *adminEnv {
	admins := newFakeAdminRepo()
	users := newFakeUserRepo()
	contacts := newFakeContactRepo()
	categories := newFakeCategoryRepo()
	tokens := newFakeRefreshTokenRepo()
	events := &fakeEvents{}

	svc := NewAdminService(AdminServiceParams{
		AdminRepo:        admins,
		UserRepo:         users,
		ContactRepo:      contacts,
		CategoryRepo:     categories,
		RefreshTokenRepo: tokens,
		Hasher:           fakeHasher{},
		TokenService:     &fakeTokenService{},
		Events:           events,
		Logger:           discardLogger(),
	})

	return &adminEnv{
		admins:     admins,
		users:      users,
		contacts:   contacts,
		categories: categories,
		tokens:     tokens,
		events:     events,
		svc:        svc,
	}
}

func (env *adminEnv) addProfile(country string, status entity.ApprovalStatus) *entity.User {
	return env.users.add(&entity.User{
		Email: uuid.NewString() + "@example.com",
		Profile: &entity.Profile{
			UserType:       entity.UserTypeBuyer,
			ApprovalStatus: status,
			Country:        country,
		},
	})
}

func TestAdminLogin_Success(t *testing.T) {
	env := newAdminEnv()
	account := env.admins.addAdmin(&entity.AdminAccount{
		Username:     "root",
		PasswordHash: "hashed:Secret123",
		IsActive:     true,
	})

	out, err := env.svc.AdminLogin(context.Background(), &usecase.AdminLoginInput{Username: "root", Password: "Secret123"})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAdmin, out.Role)
	assert.NotEmpty(t, out.AccessToken)
	assert.Empty(t, out.AssignedCountries)

	// The session is persisted under the token hash.
	_, ok := env.tokens.tokens["h:"+out.RefreshToken]
	assert.True(t, ok)
	assert.NotNil(t, env.admins.admins["root"].LastLogin)
	assert.Equal(t, account.ID, env.tokens.tokens["h:"+out.RefreshToken].UserID)
}

func TestAdminLogin_Rejections(t *testing.T) {
	env := newAdminEnv()
	env.admins.addAdmin(&entity.AdminAccount{Username: "root", PasswordHash: "hashed:Secret123", IsActive: true})
	env.admins.addAdmin(&entity.AdminAccount{Username: "retired", PasswordHash: "hashed:Secret123", IsActive: false})

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "unknown username", username: "ghost", password: "Secret123", wantErr: domainerrors.ErrInvalidCredentials},
		{name: "wrong password", username: "root", password: "wrong", wantErr: domainerrors.ErrInvalidCredentials},
		{name: "inactive account", username: "retired", password: "Secret123", wantErr: domainerrors.ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.AdminLogin(context.Background(), &usecase.AdminLoginInput{Username: tt.username, Password: tt.password})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubAdminLogin_SnapshotsCountryGrant(t *testing.T) {
	env := newAdminEnv()
	env.admins.addSubAdmin(&entity.SubAdminAccount{
		Username:          "br-reviewer",
		PasswordHash:      "hashed:Secret123",
		AssignedCountries: []string{"Brazil", "IN"},
		IsActive:          true,
	})

	out, err := env.svc.SubAdminLogin(context.Background(), &usecase.AdminLoginInput{Username: "br-reviewer", Password: "Secret123"})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleSubAdmin, out.Role)
	assert.Equal(t, []string{"Brazil", "IN"}, out.AssignedCountries)

	// The session row carries the snapshot too; token refreshes reissue
	// the grant from there.
	stored, ok := env.tokens.tokens["h:"+out.RefreshToken]
	require.True(t, ok)
	assert.Equal(t, []string{"Brazil", "IN"}, stored.AssignedCountries)
}

func TestSubAdminLogin_InactiveRejected(t *testing.T) {
	env := newAdminEnv()
	env.admins.addSubAdmin(&entity.SubAdminAccount{
		Username:     "revoked",
		PasswordHash: "hashed:Secret123",
		IsActive:     false,
	})

	_, err := env.svc.SubAdminLogin(context.Background(), &usecase.AdminLoginInput{Username: "revoked", Password: "Secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrAccountInactive)
}

func TestListProfiles_SubAdminDefaultsToPendingInGrant(t *testing.T) {
	env := newAdminEnv()
	pendingBR := env.addProfile("BR", entity.ApprovalPending)
	env.addProfile("RU", entity.ApprovalPending)
	env.addProfile("BR", entity.ApprovalApproved)

	users, err := env.svc.ListProfiles(context.Background(), subAdminPrincipal("Brazil"), &usecase.ProfileListInput{})
	require.NoError(t, err)

	// The grant names "Brazil" while the profile stores "BR"; both forms
	// refer to the same country.
	require.Len(t, users, 1)
	assert.Equal(t, pendingBR.ID, users[0].ID)
}

func TestListProfiles_SubAdminWidensStatusInsideGrant(t *testing.T) {
	env := newAdminEnv()
	env.addProfile("BR", entity.ApprovalPending)
	approvedBR := env.addProfile("BR", entity.ApprovalApproved)
	env.addProfile("RU", entity.ApprovalApproved)

	users, err := env.svc.ListProfiles(context.Background(), subAdminPrincipal("BR"), &usecase.ProfileListInput{Status: "approved"})
	require.NoError(t, err)

	require.Len(t, users, 1)
	assert.Equal(t, approvedBR.ID, users[0].ID)
}

func TestListProfiles_AdminSeesEverything(t *testing.T) {
	env := newAdminEnv()
	env.addProfile("BR", entity.ApprovalPending)
	env.addProfile("RU", entity.ApprovalApproved)

	users, err := env.svc.ListProfiles(context.Background(), adminPrincipal(), &usecase.ProfileListInput{})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestListProfiles_UserForbidden(t *testing.T) {
	env := newAdminEnv()

	_, err := env.svc.ListProfiles(context.Background(), userPrincipal(uuid.New()), &usecase.ProfileListInput{})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestDecideProfile_ApprovePublishesEvent(t *testing.T) {
	env := newAdminEnv()
	user := env.addProfile("BR", entity.ApprovalPending)

	err := env.svc.DecideProfile(context.Background(), adminPrincipal(), user.ID, entity.ApprovalApproved)
	require.NoError(t, err)

	assert.Equal(t, entity.ApprovalApproved, env.users.users[user.ID].Profile.ApprovalStatus)
	assert.Equal(t, service.EventUserApproved, env.events.lastType())
}

func TestDecideProfile_ApprovedAndRejectedConvertBothWays(t *testing.T) {
	env := newAdminEnv()
	user := env.addProfile("BR", entity.ApprovalApproved)

	require.NoError(t, env.svc.DecideProfile(context.Background(), adminPrincipal(), user.ID, entity.ApprovalRejected))
	assert.Equal(t, service.EventUserRejected, env.events.lastType())

	require.NoError(t, env.svc.DecideProfile(context.Background(), adminPrincipal(), user.ID, entity.ApprovalApproved))
	assert.Equal(t, entity.ApprovalApproved, env.users.users[user.ID].Profile.ApprovalStatus)
}

func TestDecideProfile_SameStatusIsNotAnEdge(t *testing.T) {
	env := newAdminEnv()
	user := env.addProfile("BR", entity.ApprovalApproved)

	// Re-deciding the current status is not a lifecycle edge. Idempotent
	// success only covers a concurrent decision that already reached the
	// target, not a plain repeat.
	err := env.svc.DecideProfile(context.Background(), adminPrincipal(), user.ID, entity.ApprovalApproved)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)

	assert.Empty(t, env.events.published)
}

func TestDecideProfile_SubAdminCoveringCountry(t *testing.T) {
	env := newAdminEnv()
	user := env.addProfile("Brazil", entity.ApprovalPending)

	err := env.svc.DecideProfile(context.Background(), subAdminPrincipal("BR"), user.ID, entity.ApprovalApproved)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, env.users.users[user.ID].Profile.ApprovalStatus)
}

func TestDecideProfile_SubAdminOutsideGrantMaskedAsNotFound(t *testing.T) {
	env := newAdminEnv()
	user := env.addProfile("RU", entity.ApprovalPending)

	// The profile exists, but outside the grant it must not even appear to.
	err := env.svc.DecideProfile(context.Background(), subAdminPrincipal("BR"), user.ID, entity.ApprovalApproved)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Equal(t, entity.ApprovalPending, env.users.users[user.ID].Profile.ApprovalStatus)
}

func TestDecideProfile_SubAdminCannotDelete(t *testing.T) {
	env := newAdminEnv()
	user := env.addProfile("BR", entity.ApprovalPending)

	err := env.svc.DecideProfile(context.Background(), subAdminPrincipal("BR"), user.ID, entity.ApprovalDeleted)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestDecideProfile_DeletedIsTerminal(t *testing.T) {
	env := newAdminEnv()
	user := env.addProfile("BR", entity.ApprovalDeleted)

	err := env.svc.DecideProfile(context.Background(), adminPrincipal(), user.ID, entity.ApprovalApproved)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestDecideProfile_DeleteRevokesSessions(t *testing.T) {
	env := newAdminEnv()
	user := env.addProfile("BR", entity.ApprovalApproved)

	err := env.svc.DecideProfile(context.Background(), adminPrincipal(), user.ID, entity.ApprovalDeleted)
	require.NoError(t, err)

	assert.True(t, env.tokens.revokedFor(user.ID))
	assert.Equal(t, service.EventUserDeleted, env.events.lastType())
}

func TestDecideProfile_LostRace(t *testing.T) {
	t.Run("already at target succeeds", func(t *testing.T) {
		env := newAdminEnv()
		user := env.addProfile("BR", entity.ApprovalPending)
		env.users.approvalRace = entity.ApprovalApproved

		err := env.svc.DecideProfile(context.Background(), adminPrincipal(), user.ID, entity.ApprovalApproved)
		assert.NoError(t, err)
	})

	t.Run("moved elsewhere conflicts", func(t *testing.T) {
		env := newAdminEnv()
		user := env.addProfile("BR", entity.ApprovalPending)
		env.users.approvalRace = entity.ApprovalRejected

		err := env.svc.DecideProfile(context.Background(), adminPrincipal(), user.ID, entity.ApprovalApproved)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})
}

func TestCreateSubAdmin_AdminOnly(t *testing.T) {
	env := newAdminEnv()

	_, err := env.svc.CreateSubAdmin(context.Background(), subAdminPrincipal("BR"), &usecase.CreateSubAdminInput{
		Username: "new", Password: "Secret123",
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestCreateSubAdmin_Success(t *testing.T) {
	env := newAdminEnv()
	actor := adminPrincipal()

	account, err := env.svc.CreateSubAdmin(context.Background(), actor, &usecase.CreateSubAdminInput{
		Username:          "in-reviewer",
		Password:          "Secret123",
		AssignedCountries: []string{"India"},
	})
	require.NoError(t, err)

	assert.True(t, account.IsActive)
	assert.Equal(t, actor.ID, account.CreatedBy)
	assert.Equal(t, "hashed:Secret123", account.PasswordHash)
	assert.Equal(t, []string{"India"}, account.AssignedCountries)
}

func TestCreateSubAdmin_WeakPasswordRejected(t *testing.T) {
	env := newAdminEnv()

	_, err := env.svc.CreateSubAdmin(context.Background(), adminPrincipal(), &usecase.CreateSubAdminInput{
		Username: "new", Password: "short",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCreateSubAdmin_DuplicateUsernameConflicts(t *testing.T) {
	env := newAdminEnv()
	env.admins.addSubAdmin(&entity.SubAdminAccount{Username: "taken"})

	_, err := env.svc.CreateSubAdmin(context.Background(), adminPrincipal(), &usecase.CreateSubAdminInput{
		Username: "taken", Password: "Secret123",
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestUpdateSubAdminCountries_EmptyGrantIsLegal(t *testing.T) {
	env := newAdminEnv()
	account := env.admins.addSubAdmin(&entity.SubAdminAccount{
		Username:          "br-reviewer",
		AssignedCountries: []string{"BR"},
		IsActive:          true,
	})

	err := env.svc.UpdateSubAdminCountries(context.Background(), adminPrincipal(), account.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, env.admins.subAdmins[account.ID].AssignedCountries)
}

func TestSetSubAdminActive_DeactivationRevokesSessions(t *testing.T) {
	env := newAdminEnv()
	account := env.admins.addSubAdmin(&entity.SubAdminAccount{Username: "br-reviewer", IsActive: true})

	err := env.svc.SetSubAdminActive(context.Background(), adminPrincipal(), account.ID, false)
	require.NoError(t, err)

	assert.False(t, env.admins.subAdmins[account.ID].IsActive)
	assert.True(t, env.tokens.revokedFor(account.ID))
}

func TestSetSubAdminActive_ReactivationKeepsSessionsUntouched(t *testing.T) {
	env := newAdminEnv()
	account := env.admins.addSubAdmin(&entity.SubAdminAccount{Username: "br-reviewer", IsActive: false})

	err := env.svc.SetSubAdminActive(context.Background(), adminPrincipal(), account.ID, true)
	require.NoError(t, err)

	assert.True(t, env.admins.subAdmins[account.ID].IsActive)
	assert.False(t, env.tokens.revokedFor(account.ID))
}

func TestContactInbox_AdminOnly(t *testing.T) {
	env := newAdminEnv()
	env.contacts.messages = append(env.contacts.messages, &entity.ContactMessage{ID: uuid.New(), Email: "a@b.c", Body: "hi"})

	_, err := env.svc.ListContactMessages(context.Background(), subAdminPrincipal("BR"), false, 0, 0)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	messages, err := env.svc.ListContactMessages(context.Background(), adminPrincipal(), false, 0, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	require.NoError(t, env.svc.MarkContactMessageRead(context.Background(), adminPrincipal(), messages[0].ID))
	assert.True(t, env.contacts.messages[0].IsRead)
}

func TestApproveCategory_FlipsFlag(t *testing.T) {
	env := newAdminEnv()
	category := &entity.Category{ID: uuid.New(), Name: "Coffee", IsApproved: true}
	env.categories.categories = append(env.categories.categories, category)

	err := env.svc.ApproveCategory(context.Background(), adminPrincipal(), category.ID, false)
	require.NoError(t, err)
	assert.False(t, category.IsApproved)

	err = env.svc.ApproveCategory(context.Background(), subAdminPrincipal("BR"), category.ID, true)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}
