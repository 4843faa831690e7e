package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Administrative endpoints carry the caller address in the request body; the
// ledger rejects any caller other than the sale owner. Transport-level
// authentication of that address is left to the deployment (mTLS, gateway).

type issueGrantRequest struct {
	Caller string `json:"caller"`
	Holder string `json:"holder"`
	Tier   int32  `json:"tier"`
	Amount string `json:"amount"`
}

func (r issueGrantRequest) Validate() error {
	var errList []error
	if r.Holder == "" {
		errList = append(errList, errors.New("holder is required"))
	}
	if _, err := decimal.NewFromString(r.Amount); err != nil {
		errList = append(errList, errors.Errorf("amount '%s' is not a valid decimal", r.Amount))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *handler) issueGrantHandler(ctx *fiber.Ctx) error {
	var req issueGrantRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	amount, _ := decimal.NewFromString(req.Amount)
	if _, err := h.ledger.IssueGrant(ctx.UserContext(), req.Caller, req.Holder, req.Tier, amount); err != nil {
		return errs.WithPublicMessage(err, "cannot issue grant")
	}

	alloc, status, claimable, err := h.ledger.GetAllocation(req.Holder)
	if err != nil {
		return errors.Wrap(err, "cannot get issued allocation")
	}
	return errors.WithStack(ctx.JSON(newAllocationResponse(alloc, status, claimable)))
}

type endSaleRequest struct {
	Caller string `json:"caller"`
}

func (h *handler) endSaleHandler(ctx *fiber.Ctx) error {
	var req endSaleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.ledger.EndSale(ctx.UserContext(), req.Caller); err != nil {
		return errs.WithPublicMessage(err, "cannot end sale")
	}
	return errors.WithStack(ctx.JSON(newInfoResponse(h.ledger.Info())))
}

type setVestingEpochRequest struct {
	Caller string `json:"caller"`
	Epoch  int64  `json:"epoch"` // epoch seconds
}

func (h *handler) setVestingEpochHandler(ctx *fiber.Ctx) error {
	var req setVestingEpochRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.Epoch <= 0 {
		return errs.NewPublicError("epoch must be a positive unix timestamp")
	}

	if err := h.ledger.SetVestingEpoch(ctx.UserContext(), req.Caller, time.Unix(req.Epoch, 0)); err != nil {
		return errs.WithPublicMessage(err, "cannot set vesting epoch")
	}
	return errors.WithStack(ctx.JSON(newInfoResponse(h.ledger.Info())))
}

type referralRewardRequest struct {
	Caller    string `json:"caller"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

func (r referralRewardRequest) Validate() error {
	var errList []error
	if r.Recipient == "" {
		errList = append(errList, errors.New("recipient is required"))
	}
	if _, err := decimal.NewFromString(r.Amount); err != nil {
		errList = append(errList, errors.Errorf("amount '%s' is not a valid decimal", r.Amount))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *handler) referralRewardHandler(ctx *fiber.Ctx) error {
	var req referralRewardRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	amount, _ := decimal.NewFromString(req.Amount)
	if err := h.ledger.ReferralReward(ctx.UserContext(), req.Caller, req.Recipient, amount); err != nil {
		return errs.WithPublicMessage(err, "cannot pay referral reward")
	}
	return errors.WithStack(ctx.JSON(map[string]any{
		"recipient": req.Recipient,
		"amount":    amount,
	}))
}

type withdrawRequest struct {
	Caller      string `json:"caller"`
	Pool        string `json:"pool"`
	Destination string `json:"destination"`
}

func (h *handler) withdrawHandler(ctx *fiber.Ctx) error {
	var req withdrawRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.Pool == "" {
		return errs.NewPublicError("pool is required")
	}

	amount, err := h.ledger.Withdraw(ctx.UserContext(), req.Caller, entity.Pool(req.Pool), req.Destination)
	if err != nil {
		return errs.WithPublicMessage(err, "cannot withdraw")
	}
	return errors.WithStack(ctx.JSON(map[string]any{
		"pool":   req.Pool,
		"amount": amount,
	}))
}
