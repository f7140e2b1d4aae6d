package deliveries_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/safatanc/tapreview-core/internal/app/deliveries"
	appErrors "github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/pkg/ratelimit"
	"github.com/stretchr/testify/require"
)

// tap follows the NFC landing and returns the token from the redirect.
func (s *testServer) tap(t *testing.T, username string) (string, *http.Response) {
	t.Helper()

	resp := s.do(t, newRequest(http.MethodGet, "/tap/"+username, ""))
	require.Equal(t, http.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	return location.Query().Get("tap"), resp
}

func claimRequest(username, tapToken string, cookies ...*http.Cookie) *http.Request {
	req := newRequest(http.MethodPost, "/"+username+"/tap-claim", `{"token":"`+tapToken+`"}`)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req
}

func TestTapRedirectSetsBoundCookie(t *testing.T) {
	server := newTestServer(t)

	raw, resp := server.tap(t, "joes-coffee")
	require.NotEmpty(t, raw)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "tapreview.test", location.Host)
	require.Equal(t, "/joes-coffee", location.Path)

	cookie := findCookie(resp, deliveries.TapSessionCookie)
	require.NotNil(t, cookie)
	require.Equal(t, raw, cookie.Value)
	require.Equal(t, 60, cookie.MaxAge)
	require.Equal(t, "/", cookie.Path)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestTapUnknownBusiness(t *testing.T) {
	server := newTestServer(t)

	resp := server.do(t, newRequest(http.MethodGet, "/tap/nobody-here", ""))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Nil(t, findCookie(resp, deliveries.TapSessionCookie))
}

func TestTapClaimFlow(t *testing.T) {
	server := newTestServer(t)

	raw, tapResp := server.tap(t, "joes-coffee")
	tapCookie := findCookie(tapResp, deliveries.TapSessionCookie)
	require.NotNil(t, tapCookie)

	resp := server.do(t, claimRequest("joes-coffee", raw, &http.Cookie{Name: tapCookie.Name, Value: tapCookie.Value}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	codeCookie := findCookie(resp, deliveries.CodeSessionCookie)
	require.NotNil(t, codeCookie)
	require.Equal(t, 24*60*60, codeCookie.MaxAge)
	require.True(t, codeCookie.HttpOnly)

	cleared := findCookie(resp, deliveries.TapSessionCookie)
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
	require.True(t, cleared.Expires.Before(testStart))

	body := decode[models.TapClaimResponse](t, resp)
	require.True(t, body.Success)
	require.Regexp(t, `^TT-[A-Z0-9]{4}-[A-Z0-9]{2}$`, body.ReviewCode)
	require.False(t, body.Resumed)
	require.WithinDuration(t, testStart.Add(24*time.Hour), body.ExpiresAt, time.Second)

	// A reload presents only the code session and gets the same code back.
	resumed := server.do(t, claimRequest("joes-coffee", "", &http.Cookie{Name: codeCookie.Name, Value: codeCookie.Value}))
	require.Equal(t, http.StatusOK, resumed.StatusCode)

	again := decode[models.TapClaimResponse](t, resumed)
	require.True(t, again.Resumed)
	require.Equal(t, body.ReviewCode, again.ReviewCode)
}

func TestTapClaimTokenFromQuery(t *testing.T) {
	server := newTestServer(t)

	raw, tapResp := server.tap(t, "joes-coffee")
	tapCookie := findCookie(tapResp, deliveries.TapSessionCookie)

	req := newRequest(http.MethodPost, "/joes-coffee/tap-claim?tap="+url.QueryEscape(raw), "")
	req.AddCookie(&http.Cookie{Name: tapCookie.Name, Value: tapCookie.Value})

	resp := server.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTapClaimRejections(t *testing.T) {
	server := newTestServer(t)
	raw, _ := server.tap(t, "joes-coffee")

	t.Run("missing cookie", func(t *testing.T) {
		resp := server.do(t, claimRequest("joes-coffee", raw))
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		body := decode[models.WebResponse[any]](t, resp)
		require.Equal(t, appErrors.CodeTapRequired, body.Error)
	})

	t.Run("expired tap", func(t *testing.T) {
		server.clock.Advance(61 * time.Second)
		t.Cleanup(func() { server.clock.Set(testStart) })

		resp := server.do(t, claimRequest("joes-coffee", raw, &http.Cookie{Name: deliveries.TapSessionCookie, Value: raw}))
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		body := decode[models.WebResponse[any]](t, resp)
		require.Equal(t, appErrors.CodeSessionExpired, body.Error)
	})

	t.Run("token for another business", func(t *testing.T) {
		resp := server.do(t, claimRequest("someone-else", raw, &http.Cookie{Name: deliveries.TapSessionCookie, Value: raw}))
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		body := decode[models.WebResponse[any]](t, resp)
		require.Equal(t, appErrors.CodeInvalidToken, body.Error)
	})
}

func TestTapLimitIgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	server := newTestServer(t)

	for i := 0; i < ratelimit.TapLimit.Requests; i++ {
		req := newRequest(http.MethodGet, "/tap/joes-coffee", "")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		resp := server.do(t, req)
		require.Equal(t, http.StatusFound, resp.StatusCode, "attempt %d", i+1)
	}

	req := newRequest(http.MethodGet, "/tap/joes-coffee", "")
	req.Header.Set("X-Forwarded-For", "203.0.113.250")
	resp := server.do(t, req)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
}
