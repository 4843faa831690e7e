package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type tollBridgeRequest struct {
	Address string `json:"address"`
}

type tollBridgeResponse struct {
	Address   string          `json:"address"`
	Released  decimal.Decimal `json:"released"`
	Forfeited decimal.Decimal `json:"forfeited"`
}

func (h *handler) tollBridgeHandler(ctx *fiber.Ctx) error {
	var req tollBridgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.Address == "" {
		return errs.NewPublicError("address is required")
	}

	released, forfeited, err := h.ledger.TollBridgeRelease(ctx.UserContext(), req.Address)
	if err != nil {
		return errs.WithPublicMessage(err, "toll bridge release failed")
	}

	return errors.WithStack(ctx.JSON(tollBridgeResponse{
		Address:   req.Address,
		Released:  released,
		Forfeited: forfeited,
	}))
}
