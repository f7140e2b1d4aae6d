package deliveries_test

import (
	"net/http"
	"testing"

	appErrors "github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/stretchr/testify/require"
)

func TestClaimTicketThenRedeem(t *testing.T) {
	server := newTestServer(t)

	resp := server.do(t, newRequest(http.MethodPost, "/joes-coffee/campaigns/free-coffee/claim", `{"customer_name":"Dana"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	claimed := decode[models.WebResponse[models.Ticket]](t, resp)
	require.True(t, claimed.Success)
	require.Len(t, claimed.Data.Code, 10)
	require.Equal(t, models.TicketStatusActive, claimed.Data.Status)

	session := server.sessionFor(t, server.fixture.Staff)
	resp = server.do(t, withBearer(newRequest(http.MethodPost, "/tickets/"+claimed.Data.Code+"/use", ""), session))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	redeemed := decode[models.TicketRedeemResponse](t, resp)
	require.True(t, redeemed.OK)
	require.Equal(t, server.fixture.Staff.ID, *redeemed.Ticket.UsedBy)
}

func TestClaimTicketErrors(t *testing.T) {
	server := newTestServer(t)

	resp := server.do(t, newRequest(http.MethodPost, "/joes-coffee/campaigns/free-coffee/claim", `{}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[models.WebResponse[any]](t, resp)
	require.Equal(t, appErrors.CodeValidationFailed, body.Error)

	resp = server.do(t, newRequest(http.MethodPost, "/joes-coffee/campaigns/no-such-campaign/claim", `{"customer_name":"Dana"}`))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateCampaignRoles(t *testing.T) {
	server := newTestServer(t)
	payload := `{"name":"Summer Deal","starts_at":"2026-10-14T09:00:00Z","ticket_validity_hours":24}`

	resp := server.do(t, withBearer(newRequest(http.MethodPost, "/campaigns", payload), server.sessionFor(t, server.fixture.Owner)))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[models.WebResponse[models.Campaign]](t, resp)
	require.Equal(t, "summer-deal", created.Data.Slug)
	require.Equal(t, server.fixture.Business.ID, created.Data.BusinessID)

	resp = server.do(t, withBearer(newRequest(http.MethodPost, "/campaigns", payload), server.sessionFor(t, server.fixture.Staff)))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = server.do(t, newRequest(http.MethodPost, "/campaigns", payload))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
