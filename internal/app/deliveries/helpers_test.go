package deliveries_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/safatanc/tapreview-core/internal/app/deliveries"
	"github.com/safatanc/tapreview-core/internal/app/middlewares"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/repositories"
	"github.com/safatanc/tapreview-core/internal/app/services"
	"github.com/safatanc/tapreview-core/internal/app/testutil"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"github.com/safatanc/tapreview-core/pkg/ratelimit"
	"github.com/safatanc/tapreview-core/pkg/token"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testStart = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func init() {
	logrus.SetOutput(io.Discard)
}

type testServer struct {
	app     *fiber.App
	db      *gorm.DB
	clock   *testutil.Clock
	issuer  *token.Issuer
	fixture *testutil.Fixture
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewTestDB(t)
	clock := testutil.NewClock(testStart)
	now := pkg.Clock(clock.Now)

	issuer, err := token.NewIssuer(testSecret, token.WithClock(clock.Now))
	require.NoError(t, err)

	config := &infrastructures.AppConfig{
		PublicBaseURL:    "https://tapreview.test",
		TokenSecret:      testSecret,
		RateLimitBackend: infrastructures.RateLimitBackendMemory,
	}
	validator := infrastructures.NewValidator()
	tickets := repositories.NewTicketRepository()

	accountService := services.NewAccountService(db, validator)
	auditService := services.NewAuditService(db, validator, now)
	authService := services.NewAuthService(db, validator, issuer, accountService, auditService, now)
	campaignService := services.NewCampaignService(db, validator)
	notificationService := services.NewNotificationService(infrastructures.NewMailer(config), config)
	redemptionService := services.NewTicketRedemptionService(db, config, tickets, auditService, now)
	ticketIssueService := services.NewTicketIssueService(db, validator, tickets, accountService, campaignService, notificationService, now)
	tapClaimService := services.NewTapClaimService(db, issuer, accountService, repositories.NewReviewCodeRepository(), now)

	authMiddleware := middlewares.NewAuthMiddleware(authService)
	rateLimitMiddleware := middlewares.NewRateLimitMiddleware(ratelimit.NewMemoryRateLimiterWithClock(clock.Now))

	app := fiber.New(infrastructures.NewFiberConfig(config))
	deliveries.NewAuthHandler(authService, authMiddleware, rateLimitMiddleware, config).RegisterRoutes(app)
	deliveries.NewTicketHandler(redemptionService, authMiddleware, rateLimitMiddleware).RegisterRoutes(app)
	campaignHandler := deliveries.NewCampaignHandler(campaignService, ticketIssueService, authMiddleware, rateLimitMiddleware)
	campaignHandler.RegisterRoutes(app)
	deliveries.NewAdminHandler(authService, auditService, authMiddleware).RegisterRoutes(app)
	deliveries.NewTapHandler(tapClaimService, rateLimitMiddleware, config).RegisterRoutes(app)
	campaignHandler.RegisterPublicRoutes(app)

	return &testServer{
		app:     app,
		db:      db,
		clock:   clock,
		issuer:  issuer,
		fixture: testutil.Seed(t, db, "joes-coffee", testStart.Add(-time.Hour)),
	}
}

// sessionFor mints a staff session token without going through login.
func (s *testServer) sessionFor(t *testing.T, account *models.Account) string {
	t.Helper()

	raw, err := s.issuer.Mint(token.Claims{
		Type: token.TypeSession,
		Role: string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: account.ID.String(),
		},
	}, token.SessionTTL)
	require.NoError(t, err)
	return raw
}

func (s *testServer) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return req
}

func withBearer(req *http.Request, raw string) *http.Request {
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+raw)
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
