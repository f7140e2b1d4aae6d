package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/safatanc/tapreview-core/internal/app/models"
	"gorm.io/gorm"
)

// Clock is a settable clock safe for use from several goroutines.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Fixture is a business with one account per role and one running campaign.
type Fixture struct {
	Business *models.Business
	Owner    *models.Account
	Staff    *models.Account
	Admin    *models.Account
	Campaign *models.Campaign
}

// Seed inserts a tenant named username. startsAt is the campaign start.
func Seed(t *testing.T, db *gorm.DB, username string, startsAt time.Time) *Fixture {
	t.Helper()

	business := &models.Business{Username: username, Name: username}
	mustCreate(t, db, business)

	owner := &models.Account{Username: username + "-owner", PasswordHash: "x", Role: models.AccountRoleOwner, BusinessID: &business.ID}
	staff := &models.Account{Username: username + "-staff", PasswordHash: "x", Role: models.AccountRoleStaff, BusinessID: &business.ID}
	admin := &models.Account{Username: username + "-admin", PasswordHash: "x", Role: models.AccountRoleAdmin}
	mustCreate(t, db, owner)
	mustCreate(t, db, staff)
	mustCreate(t, db, admin)

	campaign := &models.Campaign{
		BusinessID: business.ID,
		Name:       "Free Coffee",
		Slug:       "free-coffee",
		StartsAt:   startsAt,
		Status:     models.CampaignStatusActive,
	}
	mustCreate(t, db, campaign)

	return &Fixture{Business: business, Owner: owner, Staff: staff, Admin: admin, Campaign: campaign}
}

// SeedTicket inserts an ACTIVE ticket with the given code and optional expiry.
func SeedTicket(t *testing.T, db *gorm.DB, campaign *models.Campaign, code string, issuedAt time.Time, expiresAt *time.Time) *models.Ticket {
	t.Helper()

	ticket := &models.Ticket{
		Code:         code,
		CampaignID:   campaign.ID,
		Status:       models.TicketStatusActive,
		IssuedAt:     issuedAt,
		ExpiresAt:    expiresAt,
		CustomerName: "Dana",
	}
	mustCreate(t, db, ticket)
	return ticket
}

func CountAuditLogs(t *testing.T, db *gorm.DB, action models.AuditAction) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.AuditLog{}).Where("action = ?", action).Count(&count).Error; err != nil {
		t.Fatalf("failed to count audit logs: %v", err)
	}
	return count
}

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("failed to seed %T: %v", value, err)
	}
}
