package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/app/repositories"
	"github.com/safatanc/tapreview-core/internal/app/testutil"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"github.com/safatanc/tapreview-core/pkg/token"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testStart = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func init() {
	logrus.SetOutput(io.Discard)
}

type fakeMailer struct {
	mu       sync.Mutex
	messages []*gomail.Message
}

func (m *fakeMailer) From() string { return "no-reply@tapreview.test" }

func (m *fakeMailer) Send(ctx context.Context, msg *gomail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *fakeMailer) Sent() []*gomail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*gomail.Message(nil), m.messages...)
}

type testEnv struct {
	db      *gorm.DB
	clock   *testutil.Clock
	issuer  *token.Issuer
	config  *infrastructures.AppConfig
	mailer  *fakeMailer
	fixture *testutil.Fixture

	accounts     *AccountService
	audit        *AuditService
	auth         *AuthService
	campaigns    *CampaignService
	notification *NotificationService
	redemption   *TicketRedemptionService
	ticketIssue  *TicketIssueService
	tapClaim     *TapClaimService
}

func newTestEnv(t *testing.T) *testEnv {
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
	mailer := &fakeMailer{}
	tickets := repositories.NewTicketRepository()

	env := &testEnv{
		db:      db,
		clock:   clock,
		issuer:  issuer,
		config:  config,
		mailer:  mailer,
		fixture: testutil.Seed(t, db, "joes-coffee", testStart.Add(-time.Hour)),
	}
	env.accounts = NewAccountService(db, validator)
	env.audit = NewAuditService(db, validator, now)
	env.auth = NewAuthService(db, validator, issuer, env.accounts, env.audit, now)
	env.campaigns = NewCampaignService(db, validator)
	env.notification = NewNotificationService(mailer, config)
	env.redemption = NewTicketRedemptionService(db, config, tickets, env.audit, now)
	env.ticketIssue = NewTicketIssueService(db, validator, tickets, env.accounts, env.campaigns, env.notification, now)
	env.tapClaim = NewTapClaimService(db, issuer, env.accounts, repositories.NewReviewCodeRepository(), now)

	return env
}

// sequence returns a generator replaying codes in order.
func sequence(codes ...string) pkg.CodeGenerator {
	var mu sync.Mutex
	next := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		code := codes[next%len(codes)]
		next++
		return code, nil
	}
}
