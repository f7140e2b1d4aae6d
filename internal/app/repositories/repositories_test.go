package repositories

import (
	"testing"
	"time"

	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testStart = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func TestMarkUsedAppliesOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	fixture := testutil.Seed(t, db, "joes-coffee", testStart)
	ticket := testutil.SeedTicket(t, db, fixture.Campaign, "ABCD123456", testStart, nil)
	repo := NewTicketRepository()

	applied, err := repo.MarkUsed(db, ticket.ID, fixture.Staff.ID, testStart)
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = repo.MarkUsed(db, ticket.ID, fixture.Owner.ID, testStart.Add(time.Second))
	require.NoError(t, err)
	require.False(t, applied)

	stored, err := repo.FindByCode(db, "ABCD123456")
	require.NoError(t, err)
	require.Equal(t, models.TicketStatusUsed, stored.Status)
	require.Equal(t, fixture.Staff.ID, *stored.UsedBy)
	require.NotNil(t, stored.Campaign)
}

func TestMarkUsedRespectsExpiry(t *testing.T) {
	db := testutil.NewTestDB(t)
	fixture := testutil.Seed(t, db, "joes-coffee", testStart)
	expiry := testStart.Add(time.Hour)
	ticket := testutil.SeedTicket(t, db, fixture.Campaign, "EXPIRE2345", testStart, &expiry)
	repo := NewTicketRepository()

	applied, err := repo.MarkUsed(db, ticket.ID, fixture.Staff.ID, expiry.Add(time.Second))
	require.NoError(t, err)
	require.False(t, applied)

	applied, err = repo.MarkUsed(db, ticket.ID, fixture.Staff.ID, expiry)
	require.NoError(t, err)
	require.True(t, applied)
}

func TestFindByCodeMissing(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := NewTicketRepository().FindByCode(db, "NOPE234567")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = NewReviewCodeRepository().FindByCode(db, "TT-NOPE-XX")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateRejectsDuplicateCodes(t *testing.T) {
	db := testutil.NewTestDB(t)
	fixture := testutil.Seed(t, db, "joes-coffee", testStart)
	tickets := NewTicketRepository()
	reviewCodes := NewReviewCodeRepository()

	for i := 0; i < 2; i++ {
		err := tickets.Create(db, &models.Ticket{
			Code:         "DUPE234567",
			CampaignID:   fixture.Campaign.ID,
			Status:       models.TicketStatusActive,
			IssuedAt:     testStart,
			CustomerName: "Dana",
		})
		if i == 0 {
			require.NoError(t, err)
		} else {
			require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
		}

		err = reviewCodes.Create(db, &models.ReviewCode{
			Code:       "TT-DUPE-XX",
			BusinessID: fixture.Business.ID,
			Username:   fixture.Business.Username,
			CreatedAt:  testStart,
			ExpiresAt:  testStart.Add(24 * time.Hour),
		})
		if i == 0 {
			require.NoError(t, err)
		} else {
			require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
		}
	}

	count, err := tickets.CountByCampaign(db, fixture.Campaign.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	count, err = reviewCodes.CountByBusiness(db, fixture.Business.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
