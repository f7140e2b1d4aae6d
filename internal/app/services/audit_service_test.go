package services

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/stretchr/testify/require"
)

func TestAuditLogIsAppendOnly(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.audit.Record(env.db, AuditEntry{
		Action:    models.AuditActionTicketRedeemed,
		SubjectID: uuid.New(),
		ActorID:   env.fixture.Staff.ID,
		Meta:      testMeta,
	})
	require.NoError(t, err)
	require.Equal(t, models.AuditOutcomeSuccess, entry.Outcome)
	require.Nil(t, entry.Metadata)

	entry.Outcome = "TAMPERED"
	require.ErrorIs(t, env.db.Save(entry).Error, models.ErrAuditAppendOnly)
	require.ErrorIs(t, env.db.Delete(entry).Error, models.ErrAuditAppendOnly)

	var stored models.AuditLog
	require.NoError(t, env.db.First(&stored, "id = ?", entry.ID).Error)
	require.Equal(t, models.AuditOutcomeSuccess, stored.Outcome)
}

func TestGetAuditLogsPaginatesNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := env.audit.Record(env.db, AuditEntry{
			Action:    models.AuditActionTicketRedeemed,
			SubjectID: subject,
			ActorID:   env.fixture.Staff.ID,
		})
		require.NoError(t, err)
		env.clock.Advance(time.Minute)
	}
	_, err := env.audit.Record(env.db, AuditEntry{
		Action:    models.AuditActionImpersonation,
		SubjectID: env.fixture.Staff.ID,
		ActorID:   env.fixture.Admin.ID,
	})
	require.NoError(t, err)

	page, err := env.audit.GetAuditLogs(&models.PaginationRequest{Page: 1, Limit: 2}, &models.AuditLogFilter{})
	require.NoError(t, err)
	require.Equal(t, 4, page.TotalItems)
	require.Equal(t, 2, page.TotalPages)
	require.True(t, page.HasNext)
	require.Len(t, page.Items, 2)
	require.Equal(t, models.AuditActionImpersonation, page.Items[0].Action)

	action := string(models.AuditActionTicketRedeemed)
	filtered, err := env.audit.GetAuditLogs(&models.PaginationRequest{}, &models.AuditLogFilter{Action: &action})
	require.NoError(t, err)
	require.Equal(t, 3, filtered.TotalItems)
	require.Equal(t, 10, filtered.Limit)

	subjectID := subject.String()
	bySubject, err := env.audit.GetAuditLogs(&models.PaginationRequest{}, &models.AuditLogFilter{SubjectID: &subjectID})
	require.NoError(t, err)
	require.Equal(t, 3, bySubject.TotalItems)

	bogus := "DELETED"
	_, err = env.audit.GetAuditLogs(&models.PaginationRequest{}, &models.AuditLogFilter{Action: &bogus})
	require.Error(t, err)
}

func TestRecordSanitizesRequestMeta(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.audit.Record(env.db, AuditEntry{
		Action:    models.AuditActionTicketRedeemed,
		SubjectID: uuid.New(),
		ActorID:   env.fixture.Staff.ID,
		Meta: models.RequestMeta{
			IPAddress: strings.Repeat("x", 60),
			UserAgent: strings.Repeat("é", 200),
		},
	})
	require.NoError(t, err)
	require.Nil(t, entry.IPAddress)
	require.NotNil(t, entry.UserAgent)
	require.LessOrEqual(t, len(*entry.UserAgent), 255)
	require.True(t, utf8.ValidString(*entry.UserAgent))

	entry, err = env.audit.Record(env.db, AuditEntry{
		Action:    models.AuditActionTicketRedeemed,
		SubjectID: uuid.New(),
		ActorID:   env.fixture.Staff.ID,
		Meta:      models.RequestMeta{IPAddress: "2001:DB8::1"},
	})
	require.NoError(t, err)
	require.Equal(t, "2001:db8::1", *entry.IPAddress)
	require.Nil(t, entry.UserAgent)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 5))
	require.Equal(t, "é", truncate("éé", 3))
	require.Equal(t, "", truncate("é", 1))
	require.Equal(t, "a\uFFFD", truncate("a\xff", 10))
}
