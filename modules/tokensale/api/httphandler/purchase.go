package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type purchaseRequest struct {
	Address string `json:"address"`
	Tier    int32  `json:"tier"`
	Payment string `json:"payment"`
}

func (r purchaseRequest) Validate() error {
	var errList []error
	if r.Address == "" {
		errList = append(errList, errors.New("address is required"))
	}
	if _, err := decimal.NewFromString(r.Payment); err != nil {
		errList = append(errList, errors.Errorf("payment '%s' is not a valid decimal", r.Payment))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *handler) purchaseHandler(ctx *fiber.Ctx) error {
	var req purchaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	payment, _ := decimal.NewFromString(req.Payment)
	if _, err := h.ledger.Purchase(ctx.UserContext(), req.Address, req.Tier, payment); err != nil {
		return errs.WithPublicMessage(err, "purchase failed")
	}

	alloc, status, claimable, err := h.ledger.GetAllocation(req.Address)
	if err != nil {
		return errors.Wrap(err, "cannot get created allocation")
	}
	return errors.WithStack(ctx.JSON(newAllocationResponse(alloc, status, claimable)))
}
