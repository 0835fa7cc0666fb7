//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/backoffice-api/test/pact"

	backofficeserver "github.com/Apurer/backoffice-api/go"
	"github.com/Apurer/backoffice-api/internal/app/api"
	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	caseworkflows "github.com/Apurer/backoffice-api/internal/domains/salescases/adapters/workflows"
	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/platform/memory"
	"github.com/Apurer/backoffice-api/internal/shared/uow"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBackofficeProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateProductExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedProduct(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the whole service graph on every reset so that
// identifiers handed out by the store start from 1 for each interaction.
type contractProviderApp struct {
	mu       sync.RWMutex
	router   http.Handler
	services api.Services
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	unitOfWork := memory.NewUnitOfWork()
	seedUsers(t, unitOfWork)

	services := api.BuildServices(unitOfWork, api.Config{}, nil)
	handlers := backofficeserver.ApiHandleFunctions{
		Identity:     services.Users,
		ProductAPI:   backofficeserver.NewProductAPI(services.Catalog),
		DiscountAPI:  backofficeserver.NewDiscountAPI(services.Catalog),
		PriceAPI:     backofficeserver.NewPriceAPI(services.Pricing),
		OrderAPI:     backofficeserver.NewOrderAPI(services.Orders),
		SalesCaseAPI: backofficeserver.NewSalesCaseAPI(services.SalesCases, caseworkflows.NewInlineCaseWorkflows(services.SalesCases)),
		UserAPI:      backofficeserver.NewUserAPI(services.Users),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = backofficeserver.NewRouterWithGinEngine(router, handlers)

	a.mu.Lock()
	a.router = router
	a.services = services
	a.mu.Unlock()
}

func (a *contractProviderApp) seedProduct(t testing.TB) {
	t.Helper()
	a.mu.RLock()
	catalog := a.services.Catalog
	a.mu.RUnlock()

	product, err := catalog.CreateProduct(context.Background(), &catalogdomain.Product{
		Name:          "Pact Pearl Necklace",
		CostPrice:     decimal.RequireFromString("50.00"),
		SellingPrice:  decimal.RequireFromString("99.90"),
		StockQuantity: pacttest.ExistingProductStock,
	})
	require.NoError(t, err)
	require.Equal(t, pacttest.ExistingProductID, product.ID)
}

func seedUsers(t testing.TB, unitOfWork uow.UnitOfWork) {
	t.Helper()
	err := unitOfWork.Do(context.Background(), func(ctx context.Context, tx uow.Tx) error {
		for _, seed := range []struct {
			id    int64
			email string
			role  userdomain.Role
		}{
			{pacttest.AdminUserID, "admin@pact.example", userdomain.RoleAdmin},
			{pacttest.CustomerUserID, "buyer@pact.example", userdomain.RoleCustomer},
		} {
			user, err := tx.Users().Create(ctx, &userdomain.User{Email: seed.email, Role: seed.role})
			if err != nil {
				return err
			}
			if user.ID != seed.id {
				return errors.New("unexpected seeded user id for " + seed.email)
			}
		}
		return nil
	})
	require.NoError(t, err)
}
