package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gofiber/fiber/v2"
)

func (h *handler) infoHandler(ctx *fiber.Ctx) error {
	return errors.WithStack(ctx.JSON(newInfoResponse(h.ledger.Info())))
}

type allocationRequest struct {
	Address string `params:"address"`
}

func (h *handler) allocationHandler(ctx *fiber.Ctx) error {
	var req allocationRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	alloc, status, claimable, err := h.ledger.GetAllocation(req.Address)
	if err != nil {
		return errs.WithPublicMessage(err, "cannot get allocation")
	}
	return errors.WithStack(ctx.JSON(newAllocationResponse(alloc, status, claimable)))
}
