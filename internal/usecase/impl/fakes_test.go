package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"tradegate/internal/domain/entity"
	domainerrors "tradegate/internal/domain/errors"
	"tradegate/internal/domain/policy"
	"tradegate/internal/domain/repository"
	"tradegate/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Hand-rolled in-memory fakes shared by the service tests. They honor the
// repository contracts the services rely on: sentinel errors for missing
// records, ID assignment on create, and the zero-rows contract of the
// conditional status updates.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func userPrincipal(id uuid.UUID) policy.Principal {
	return policy.Principal{Kind: policy.KindUser, ID: id, LoginTime: time.Now()}
}

func adminPrincipal() policy.Principal {
	return policy.Principal{Kind: policy.KindAdmin, ID: uuid.New(), LoginTime: time.Now()}
}

func subAdminPrincipal(countries ...string) policy.Principal {
	return policy.Principal{
		Kind:              policy.KindSubAdmin,
		ID:                uuid.New(),
		AssignedCountries: countries,
		LoginTime:         time.Now(),
	}
}

// --- user repository ---

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
	// approvalRace, when set, makes the next conditional update lose: the
	// stored status flips to this value and zero rows are reported.
	approvalRace entity.ApprovalStatus
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) add(user *entity.User) *entity.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Profile != nil {
		user.Profile.UserID = user.ID
	}
	r.users[user.ID] = user

	return user
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.add(user)

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	if user.Profile != nil {
		user.Profile.UserID = user.ID
	}
	r.users[user.ID] = user

	return nil
}

func (r *fakeUserRepo) ListProfiles(_ context.Context, q repository.ProfileQuery) ([]*entity.User, error) {
	var result []*entity.User
	for _, user := range r.users {
		if user.Profile == nil {
			continue
		}
		if !q.Filter.Matches(policy.ProfileResource(user.Profile)) {
			continue
		}
		if q.UserType != "" && user.Profile.UserType != q.UserType {
			continue
		}
		result = append(result, user)
	}

	return result, nil
}

func (r *fakeUserRepo) UpdateApprovalStatusIf(_ context.Context, userID uuid.UUID, from, to entity.ApprovalStatus) (int64, error) {
	user, ok := r.users[userID]
	if !ok || user.Profile == nil {
		return 0, nil
	}
	if r.approvalRace != "" {
		user.Profile.ApprovalStatus = r.approvalRace

		return 0, nil
	}
	if user.Profile.ApprovalStatus != from {
		return 0, nil
	}
	user.Profile.ApprovalStatus = to

	return 1, nil
}

func (r *fakeUserRepo) UpdateDeviceToken(_ context.Context, userID uuid.UUID, token string) error {
	user, ok := r.users[userID]
	if !ok || user.Profile == nil {
		return repository.ErrUserNotFound
	}
	user.Profile.DeviceToken = token

	return nil
}

// --- auth repository ---

type fakeAuthRepo struct {
	records []*entity.Authentication
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{}
}

func (r *fakeAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	if auth.ID == uuid.Nil {
		auth.ID = uuid.New()
	}
	r.records = append(r.records, auth)

	return nil
}

func (r *fakeAuthRepo) FindAuthentication(_ context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error) {
	for _, record := range r.records {
		if record.Provider == provider && record.ProviderUserID == providerUserID {
			return record, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

// --- refresh token repository ---

type fakeRefreshTokenRepo struct {
	tokens       map[string]*entity.RefreshToken
	deletedUsers []uuid.UUID
	sessionCount int
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*entity.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.tokens[token.TokenHash] = token

	return nil
}

func (r *fakeRefreshTokenRepo) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}

	return token, nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokenByHash(_ context.Context, tokenHash string) error {
	delete(r.tokens, tokenHash)

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	r.deletedUsers = append(r.deletedUsers, userID)
	for hash, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, hash)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpiredRefreshTokens(_ context.Context) error {
	return nil
}

func (r *fakeRefreshTokenRepo) CountActiveSessionsByUserID(_ context.Context, _ uuid.UUID) (int, error) {
	return r.sessionCount, nil
}

func (r *fakeRefreshTokenRepo) revokedFor(userID uuid.UUID) bool {
	for _, id := range r.deletedUsers {
		if id == userID {
			return true
		}
	}

	return false
}

// --- product repository ---

type fakeProductRepo struct {
	products  map[uuid.UUID]*entity.Product
	lastQuery repository.ListingQuery
	// raceStatus, when set, makes the next conditional update lose: the
	// stored status flips to this value and zero rows are reported.
	raceStatus entity.ListingStatus
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) add(product *entity.Product) *entity.Product {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = product

	return product
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.add(product)
	for _, image := range product.Images {
		image.ID = uuid.New()
		image.ProductID = product.ID
	}

	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}

	return product, nil
}

func (r *fakeProductRepo) List(_ context.Context, q repository.ListingQuery) ([]*entity.Product, error) {
	r.lastQuery = q

	var result []*entity.Product
	for _, product := range r.products {
		if !q.Filter.Matches(policy.ProductResource(product)) {
			continue
		}
		if q.Category != "" && product.Category != q.Category {
			continue
		}
		result = append(result, product)
	}

	return result, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return repository.ErrListingNotFound
	}
	r.products[product.ID] = product

	return nil
}

func (r *fakeProductRepo) UpdateStatusIf(_ context.Context, id uuid.UUID, from, to entity.ListingStatus) (int64, error) {
	product, ok := r.products[id]
	if !ok {
		return 0, nil
	}
	if r.raceStatus != "" {
		product.Status = r.raceStatus

		return 0, nil
	}
	if product.Status != from {
		return 0, nil
	}
	product.Status = to

	return 1, nil
}

// --- request repository ---

type fakeRequestRepo struct {
	requests   map[uuid.UUID]*entity.ProductRequest
	lastQuery  repository.ListingQuery
	raceStatus entity.ListingStatus
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]*entity.ProductRequest)}
}

func (r *fakeRequestRepo) add(request *entity.ProductRequest) *entity.ProductRequest {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	r.requests[request.ID] = request

	return request
}

func (r *fakeRequestRepo) Create(_ context.Context, request *entity.ProductRequest) error {
	r.add(request)

	return nil
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ProductRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}

	return request, nil
}

func (r *fakeRequestRepo) List(_ context.Context, q repository.ListingQuery) ([]*entity.ProductRequest, error) {
	r.lastQuery = q

	var result []*entity.ProductRequest
	for _, request := range r.requests {
		if !q.Filter.Matches(policy.RequestResource(request)) {
			continue
		}
		if q.Category != "" && request.Category != q.Category {
			continue
		}
		result = append(result, request)
	}

	return result, nil
}

func (r *fakeRequestRepo) Update(_ context.Context, request *entity.ProductRequest) error {
	if _, ok := r.requests[request.ID]; !ok {
		return repository.ErrListingNotFound
	}
	r.requests[request.ID] = request

	return nil
}

func (r *fakeRequestRepo) UpdateStatusIf(_ context.Context, id uuid.UUID, from, to entity.ListingStatus) (int64, error) {
	request, ok := r.requests[id]
	if !ok {
		return 0, nil
	}
	if r.raceStatus != "" {
		request.Status = r.raceStatus

		return 0, nil
	}
	if request.Status != from {
		return 0, nil
	}
	request.Status = to

	return 1, nil
}

// --- category repository ---

type fakeCategoryRepo struct {
	categories []*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	for _, existing := range r.categories {
		if existing.Name == category.Name {
			return repository.ErrCategoryExists
		}
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	r.categories = append(r.categories, category)

	return nil
}

func (r *fakeCategoryRepo) List(_ context.Context, approvedOnly bool) ([]*entity.Category, error) {
	var result []*entity.Category
	for _, category := range r.categories {
		if approvedOnly && !category.IsApproved {
			continue
		}
		result = append(result, category)
	}

	return result, nil
}

func (r *fakeCategoryRepo) SetApproved(_ context.Context, id uuid.UUID, approved bool) error {
	for _, category := range r.categories {
		if category.ID == id {
			category.IsApproved = approved

			return nil
		}
	}

	return repository.ErrCategoryNotFound
}

// --- contact repository ---

type fakeContactRepo struct {
	messages []*entity.ContactMessage
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{}
}

func (r *fakeContactRepo) Create(_ context.Context, message *entity.ContactMessage) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	r.messages = append(r.messages, message)

	return nil
}

func (r *fakeContactRepo) List(_ context.Context, unreadOnly bool, _, _ int) ([]*entity.ContactMessage, error) {
	var result []*entity.ContactMessage
	for _, message := range r.messages {
		if unreadOnly && message.IsRead {
			continue
		}
		result = append(result, message)
	}

	return result, nil
}

func (r *fakeContactRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	for _, message := range r.messages {
		if message.ID == id {
			message.IsRead = true

			return nil
		}
	}

	return repository.ErrMessageNotFound
}

// --- admin repository ---

type fakeAdminRepo struct {
	admins    map[string]*entity.AdminAccount
	subAdmins map[uuid.UUID]*entity.SubAdminAccount
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{
		admins:    make(map[string]*entity.AdminAccount),
		subAdmins: make(map[uuid.UUID]*entity.SubAdminAccount),
	}
}

func (r *fakeAdminRepo) addAdmin(account *entity.AdminAccount) *entity.AdminAccount {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	r.admins[account.Username] = account

	return account
}

func (r *fakeAdminRepo) addSubAdmin(account *entity.SubAdminAccount) *entity.SubAdminAccount {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	r.subAdmins[account.ID] = account

	return account
}

func (r *fakeAdminRepo) FindAdminByUsername(_ context.Context, username string) (*entity.AdminAccount, error) {
	account, ok := r.admins[username]
	if !ok {
		return nil, repository.ErrAdminNotFound
	}

	return account, nil
}

func (r *fakeAdminRepo) FindSubAdminByID(_ context.Context, id uuid.UUID) (*entity.SubAdminAccount, error) {
	account, ok := r.subAdmins[id]
	if !ok {
		return nil, repository.ErrAdminNotFound
	}

	return account, nil
}

func (r *fakeAdminRepo) FindSubAdminByUsername(_ context.Context, username string) (*entity.SubAdminAccount, error) {
	for _, account := range r.subAdmins {
		if account.Username == username {
			return account, nil
		}
	}

	return nil, repository.ErrAdminNotFound
}

func (r *fakeAdminRepo) CreateSubAdmin(_ context.Context, subAdmin *entity.SubAdminAccount) error {
	for _, existing := range r.subAdmins {
		if existing.Username == subAdmin.Username {
			return repository.ErrAdminExists
		}
	}
	r.addSubAdmin(subAdmin)

	return nil
}

func (r *fakeAdminRepo) ListSubAdmins(_ context.Context) ([]*entity.SubAdminAccount, error) {
	result := make([]*entity.SubAdminAccount, 0, len(r.subAdmins))
	for _, account := range r.subAdmins {
		result = append(result, account)
	}

	return result, nil
}

func (r *fakeAdminRepo) UpdateSubAdminCountries(_ context.Context, id uuid.UUID, countries []string) error {
	account, ok := r.subAdmins[id]
	if !ok {
		return repository.ErrAdminNotFound
	}
	account.AssignedCountries = countries

	return nil
}

func (r *fakeAdminRepo) SetSubAdminActive(_ context.Context, id uuid.UUID, active bool) error {
	account, ok := r.subAdmins[id]
	if !ok {
		return repository.ErrAdminNotFound
	}
	account.IsActive = active

	return nil
}

func (r *fakeAdminRepo) TouchAdminLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	for _, account := range r.admins {
		if account.ID == id {
			account.LastLogin = &at

			return nil
		}
	}

	return repository.ErrAdminNotFound
}

func (r *fakeAdminRepo) TouchSubAdminLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	account, ok := r.subAdmins[id]
	if !ok {
		return repository.ErrAdminNotFound
	}
	account.LastLogin = &at

	return nil
}

// --- transaction plumbing ---

type fakeRepoFactory struct {
	users      *fakeUserRepo
	auths      *fakeAuthRepo
	tokens     *fakeRefreshTokenRepo
	products   *fakeProductRepo
	requests   *fakeRequestRepo
	categories *fakeCategoryRepo
}

func newFakeRepoFactory() *fakeRepoFactory {
	return &fakeRepoFactory{
		users:      newFakeUserRepo(),
		auths:      newFakeAuthRepo(),
		tokens:     newFakeRefreshTokenRepo(),
		products:   newFakeProductRepo(),
		requests:   newFakeRequestRepo(),
		categories: newFakeCategoryRepo(),
	}
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository                 { return f.users }
func (f *fakeRepoFactory) AuthRepo() repository.AuthRepository                 { return f.auths }
func (f *fakeRepoFactory) RefreshTokenRepo() repository.RefreshTokenRepository { return f.tokens }
func (f *fakeRepoFactory) ProductRepo() repository.ProductRepository           { return f.products }
func (f *fakeRepoFactory) RequestRepo() repository.RequestRepository           { return f.requests }
func (f *fakeRepoFactory) CategoryRepo() repository.CategoryRepository         { return f.categories }

type fakeTxManager struct {
	factory *fakeRepoFactory
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

// --- domain services ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

func (fakeHasher) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return domainerrors.ErrPasswordStrength
	}

	return nil
}

type fakeTokenService struct {
	refreshClaims *service.Claims
	refreshErr    error
	lastLoginTime time.Time
	lastCountries []string
	issued        int
}

func (s *fakeTokenService) GenerateTokens(_ uuid.UUID, _ entity.Role, assignedCountries []string, loginTime time.Time) (string, string, error) {
	s.issued++
	s.lastLoginTime = loginTime
	s.lastCountries = assignedCountries

	return fmt.Sprintf("access-%d", s.issued), fmt.Sprintf("refresh-%d", s.issued), nil
}

func (s *fakeTokenService) ValidateAccessToken(string) (*service.Claims, error) {
	return s.refreshClaims, s.refreshErr
}

func (s *fakeTokenService) ValidateRefreshToken(string) (*service.Claims, error) {
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}

	return s.refreshClaims, nil
}

func (s *fakeTokenService) HashToken(token string) string {
	return "h:" + token
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return 7 * 24 * time.Hour
}

type fakeEvents struct {
	published []*service.MarketplaceEvent
}

func (e *fakeEvents) PublishMarketplaceEvent(_ context.Context, event *service.MarketplaceEvent) error {
	e.published = append(e.published, event)

	return nil
}

func (e *fakeEvents) Close() error {
	return nil
}

func (e *fakeEvents) lastType() string {
	if len(e.published) == 0 {
		return ""
	}

	return e.published[len(e.published)-1].Type
}

type fakeOAuthService struct {
	user *service.OAuthUser
	err  error
}

func (s *fakeOAuthService) VerifyIDToken(context.Context, string) (*service.OAuthUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, errors.New("no oauth user configured")
	}

	return s.user, nil
}

func (s *fakeOAuthService) GetProvider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}

type fakeQRService struct{}

func (fakeQRService) GenerateProductQR(uuid.UUID) ([]byte, error) {
	return []byte("png-bytes"), nil
}
