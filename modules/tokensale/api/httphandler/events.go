package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/datagateway"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type eventsRequest struct {
	Type    string `query:"type"`
	Address string `query:"address"`
	Limit   int32  `query:"limit"`
}

func (r eventsRequest) Validate() error {
	var errList []error
	if r.Limit < 0 {
		errList = append(errList, errors.New("limit must not be negative"))
	}
	if r.Type != "" && r.Address != "" {
		errList = append(errList, errors.New("type and address filters cannot be combined"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *handler) eventsHandler(ctx *fiber.Ctx) error {
	var req eventsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	var events []entity.Event
	var err error
	if req.Address != "" {
		events, err = h.saleDg.GetEventsByAddress(ctx.UserContext(), req.Address)
	} else {
		events, err = h.saleDg.GetEvents(ctx.UserContext(), datagateway.GetEventsParams{
			Type:  entity.EventType(req.Type),
			Limit: req.Limit,
		})
	}
	if err != nil {
		return errors.Wrap(err, "cannot get events")
	}

	return errors.WithStack(ctx.JSON(map[string]any{
		"events": lo.Map(events, func(event entity.Event, _ int) eventResponse {
			return newEventResponse(event)
		}),
	}))
}
