package pkg

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	appError "github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/stretchr/testify/require"
)

func errorApp(err error) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ErrorResponse(c, err)
	})
	return app
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		code       string
		retryAfter string
	}{
		{name: "app error", err: appError.NewAlreadyUsedError("Ticket already used"), status: http.StatusBadRequest, code: appError.CodeAlreadyUsed},
		{name: "rate limited", err: appError.NewTooManyRequestsError("Rate limit exceeded", 42), status: http.StatusTooManyRequests, code: appError.CodeRateLimited, retryAfter: "42"},
		{name: "fiber error", err: fiber.NewError(fiber.StatusUnprocessableEntity, "bad body"), status: http.StatusUnprocessableEntity, code: appError.CodeValidationFailed},
		{name: "unknown error", err: errors.New("boom"), status: http.StatusInternalServerError, code: appError.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := errorApp(tt.err).Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)
			require.Equal(t, tt.retryAfter, resp.Header.Get("Retry-After"))

			var body models.WebResponse[any]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.False(t, body.Success)
			require.Equal(t, tt.code, body.Error)
		})
	}
}

func TestClientIP(t *testing.T) {
	newApp := func(trusted []string) *fiber.App {
		app := fiber.New(fiber.Config{
			ProxyHeader:             fiber.HeaderXForwardedFor,
			EnableTrustedProxyCheck: true,
			TrustedProxies:          trusted,
			EnableIPValidation:      true,
		})
		app.Get("/", func(c *fiber.Ctx) error {
			return c.SendString(ClientIP(c))
		})
		return app
	}

	tests := []struct {
		name    string
		trusted []string
		xff     string
		want    string
	}{
		{name: "trusted proxy", trusted: []string{"0.0.0.0/0"}, xff: "203.0.113.7, 10.0.0.1", want: "203.0.113.7"},
		{name: "trusted proxy with garbage header", trusted: []string{"0.0.0.0/0"}, xff: strings.Repeat("x", 60), want: "0.0.0.0"},
		{name: "untrusted peer", xff: "203.0.113.7", want: "0.0.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(fiber.HeaderXForwardedFor, tt.xff)

			resp, err := newApp(tt.trusted).Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(body))
		})
	}
}
