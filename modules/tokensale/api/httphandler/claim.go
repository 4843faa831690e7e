package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type claimRequest struct {
	Address string `json:"address"`
}

type claimResponse struct {
	Address  string          `json:"address"`
	Released decimal.Decimal `json:"released"`
}

func (h *handler) claimHandler(ctx *fiber.Ctx) error {
	var req claimRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.Address == "" {
		return errs.NewPublicError("address is required")
	}

	released, err := h.ledger.Claim(ctx.UserContext(), req.Address)
	if err != nil {
		return errs.WithPublicMessage(err, "claim failed")
	}

	return errors.WithStack(ctx.JSON(claimResponse{
		Address:  req.Address,
		Released: released,
	}))
}
