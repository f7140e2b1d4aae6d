package pkg

import (
	"errors"
	"net"
	"reflect"
	"strconv"

	"github.com/gofiber/fiber/v2"
	appError "github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/sirupsen/logrus"
)

func SuccessResponse[T any](c *fiber.Ctx, data T) error {
	return c.JSON(models.WebResponse[T]{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, err error) error {
	var appErr *appError.AppError
	if errors.As(err, &appErr) {
		if appErr.RetryAfter > 0 {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(appErr.RetryAfter))
		}
		return c.Status(appErr.StatusCode).JSON(models.WebResponse[any]{
			Success: false,
			Error:   appErr.Code,
			Message: appErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(models.WebResponse[any]{
			Success: false,
			Error:   appError.CodeValidationFailed,
			Message: fiberErr.Message,
		})
	}

	logrus.Errorf("[%s] %s", reflect.TypeOf(err).String(), err)

	return c.Status(fiber.StatusInternalServerError).JSON(models.WebResponse[any]{
		Success: false,
		Error:   appError.CodeInternal,
		Message: "Internal Server Error",
	})
}

// ClientIP returns the caller address. Proxy headers are resolved by the
// fiber config, so only trusted proxies can set it, and the value is
// always a parseable IP.
func ClientIP(c *fiber.Ctx) string {
	if ip := net.ParseIP(c.IP()); ip != nil {
		return ip.String()
	}
	return c.Context().RemoteIP().String()
}

// RequestMeta captures the caller details recorded with audited actions.
func RequestMeta(c *fiber.Ctx) models.RequestMeta {
	return models.RequestMeta{
		IPAddress: ClientIP(c),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}
