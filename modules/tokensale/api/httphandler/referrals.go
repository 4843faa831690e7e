package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gofiber/fiber/v2"
)

type addReferralRequest struct {
	Referee  string `json:"referee"`
	Referrer string `json:"referrer"`
}

func (r addReferralRequest) Validate() error {
	var errList []error
	if r.Referee == "" {
		errList = append(errList, errors.New("referee is required"))
	}
	if r.Referrer == "" {
		errList = append(errList, errors.New("referrer is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *handler) addReferralHandler(ctx *fiber.Ctx) error {
	var req addReferralRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := h.ledger.AddReferral(ctx.UserContext(), req.Referee, req.Referrer); err != nil {
		return errs.WithPublicMessage(err, "cannot add referral")
	}
	return errors.WithStack(ctx.JSON(map[string]any{
		"referee":  req.Referee,
		"referrer": req.Referrer,
	}))
}
