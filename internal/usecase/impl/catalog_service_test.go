package impl

import (
	"context"
	"testing"

	"tradegate/internal/domain/entity"
	domainerrors "tradegate/internal/domain/errors"
	"tradegate/internal/domain/policy"
	"tradegate/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogEnv struct {
	products   *fakeProductRepo
	requests   *fakeRequestRepo
	categories *fakeCategoryRepo
	contacts   *fakeContactRepo
	svc        usecase.CatalogUsecase
}

func newCatalogEnv() *catalogEnv {
	products := newFakeProductRepo()
	requests := newFakeRequestRepo()
	categories := newFakeCategoryRepo()
	contacts := newFakeContactRepo()

	svc := NewCatalogService(CatalogServiceParams{
		ProductRepo:  products,
		RequestRepo:  requests,
		CategoryRepo: categories,
		ContactRepo:  contacts,
		QRService:    fakeQRService{},
		Logger:       discardLogger(),
	})

	return &catalogEnv{
		products:   products,
		requests:   requests,
		categories: categories,
		contacts:   contacts,
		svc:        svc,
	}
}

func TestListProducts_PublicSeesOnlyActive(t *testing.T) {
	env := newCatalogEnv()
	active := env.products.add(&entity.Product{ExporterID: uuid.New(), Status: entity.ListingActive, CountryOrigin: "BR"})
	env.products.add(&entity.Product{ExporterID: uuid.New(), Status: entity.ListingDone, CountryOrigin: "BR"})

	products, err := env.svc.ListProducts(context.Background(), policy.Anonymous(), &usecase.BrowseInput{})
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, active.ID, products[0].ID)
}

func TestListProducts_PublicCannotWidenStatuses(t *testing.T) {
	env := newCatalogEnv()
	env.products.add(&entity.Product{ExporterID: uuid.New(), Status: entity.ListingDone, CountryOrigin: "BR"})

	products, err := env.svc.ListProducts(context.Background(), policy.Anonymous(), &usecase.BrowseInput{
		Statuses: []string{"done"},
	})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListProducts_SubAdminWidensWithinGrant(t *testing.T) {
	env := newCatalogEnv()
	doneBR := env.products.add(&entity.Product{ExporterID: uuid.New(), Status: entity.ListingDone, CountryOrigin: "BR"})
	env.products.add(&entity.Product{ExporterID: uuid.New(), Status: entity.ListingDone, CountryOrigin: "RU"})

	products, err := env.svc.ListProducts(context.Background(), subAdminPrincipal("Brazil"), &usecase.BrowseInput{
		Statuses: []string{"done"},
	})
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, doneBR.ID, products[0].ID)
}

func TestListProducts_ClampsLimit(t *testing.T) {
	env := newCatalogEnv()

	_, err := env.svc.ListProducts(context.Background(), policy.Anonymous(), &usecase.BrowseInput{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, env.products.lastQuery.Limit)

	_, err = env.svc.ListProducts(context.Background(), policy.Anonymous(), &usecase.BrowseInput{})
	require.NoError(t, err)
	assert.Equal(t, 20, env.products.lastQuery.Limit)
}

func TestGetProduct_MasksInvisibleAsNotFound(t *testing.T) {
	env := newCatalogEnv()
	ownerID := uuid.New()
	product := env.products.add(&entity.Product{ExporterID: ownerID, Status: entity.ListingDone, CountryOrigin: "BR"})

	_, err := env.svc.GetProduct(context.Background(), policy.Anonymous(), product.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// The owner and the back office still see the finished listing.
	got, err := env.svc.GetProduct(context.Background(), userPrincipal(ownerID), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)

	_, err = env.svc.GetProduct(context.Background(), adminPrincipal(), product.ID)
	assert.NoError(t, err)
}

func TestGetProduct_UnknownID(t *testing.T) {
	env := newCatalogEnv()

	_, err := env.svc.GetProduct(context.Background(), adminPrincipal(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProductShareQR_MasksLikeGetProduct(t *testing.T) {
	env := newCatalogEnv()
	ownerID := uuid.New()
	product := env.products.add(&entity.Product{ExporterID: ownerID, Status: entity.ListingDone, CountryOrigin: "BR"})

	_, err := env.svc.ProductShareQR(context.Background(), policy.Anonymous(), product.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	png, err := env.svc.ProductShareQR(context.Background(), userPrincipal(ownerID), product.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestGetRequest_MasksInvisibleAsNotFound(t *testing.T) {
	env := newCatalogEnv()
	request := env.requests.add(&entity.ProductRequest{RequesterID: uuid.New(), Status: entity.ListingDeleted, TargetCountry: "IN"})

	_, err := env.svc.GetRequest(context.Background(), userPrincipal(uuid.New()), request.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListCategories(t *testing.T) {
	env := newCatalogEnv()
	env.categories.categories = append(env.categories.categories,
		&entity.Category{ID: uuid.New(), Name: "Coffee", IsApproved: true},
		&entity.Category{ID: uuid.New(), Name: "Obscure", IsApproved: false},
	)

	all, err := env.svc.ListCategories(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	approved, err := env.svc.ListCategories(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "Coffee", approved[0].Name)
}

func TestSuggestCategory_UserOnly(t *testing.T) {
	env := newCatalogEnv()

	_, err := env.svc.SuggestCategory(context.Background(), policy.Anonymous(), "Tea")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.svc.SuggestCategory(context.Background(), adminPrincipal(), "Tea")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestSuggestCategory_Success(t *testing.T) {
	env := newCatalogEnv()
	p := userPrincipal(uuid.New())

	category, err := env.svc.SuggestCategory(context.Background(), p, "Tea")
	require.NoError(t, err)

	assert.True(t, category.IsApproved)
	require.NotNil(t, category.CreatedBy)
	assert.Equal(t, p.ID, *category.CreatedBy)
}

func TestSuggestCategory_Validation(t *testing.T) {
	env := newCatalogEnv()
	p := userPrincipal(uuid.New())

	_, err := env.svc.SuggestCategory(context.Background(), p, "")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = env.svc.SuggestCategory(context.Background(), p, "Tea")
	require.NoError(t, err)

	_, err = env.svc.SuggestCategory(context.Background(), p, "Tea")
	assert.ErrorIs(t, err, domainerrors.ErrCategoryExists)
}

func TestSubmitContactMessage(t *testing.T) {
	env := newCatalogEnv()

	err := env.svc.SubmitContactMessage(context.Background(), &usecase.ContactInput{Name: "Ana", Body: "hi"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	err = env.svc.SubmitContactMessage(context.Background(), &usecase.ContactInput{Name: "Ana", Email: "ana@example.com"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	err = env.svc.SubmitContactMessage(context.Background(), &usecase.ContactInput{
		Name:    "Ana",
		Email:   "ana@example.com",
		Subject: "Partnership",
		Body:    "hi",
	})
	require.NoError(t, err)
	require.Len(t, env.contacts.messages, 1)
	assert.False(t, env.contacts.messages[0].IsRead)
}
