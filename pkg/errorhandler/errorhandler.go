package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/pkg/logger"
	"github.com/gaze-network/tokensale/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

func statusFromCode(code string) int {
	switch errs.ErrorKind(code) {
	case errs.NotFound, errs.NoAllocation:
		return http.StatusNotFound
	case errs.Unauthorized:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			resp := map[string]any{
				"error": e.Message(),
			}
			if e.Code() != "" {
				resp["code"] = e.Code()
			}
			return errors.WithStack(ctx.Status(statusFromCode(e.Code())).JSON(resp))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).SendString(e.Error()))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error",
			slogx.String("event", "api_unhandled_error"),
			slogx.Error(err),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(map[string]any{
			"error": "Internal Server Error",
		}))
	}
}
