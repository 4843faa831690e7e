package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *handler) Mount(router fiber.Router) error {
	r := router.Group("/tokensale/v1")

	r.Get("/info", h.infoHandler)
	r.Get("/allocations/:address", h.allocationHandler)
	r.Get("/events", h.eventsHandler)

	r.Post("/purchase", h.purchaseHandler)
	r.Post("/claim", h.claimHandler)
	r.Post("/tollbridge", h.tollBridgeHandler)
	r.Post("/referrals", h.addReferralHandler)

	admin := r.Group("/admin")
	admin.Post("/grants", h.issueGrantHandler)
	admin.Post("/end-sale", h.endSaleHandler)
	admin.Post("/vesting-epoch", h.setVestingEpochHandler)
	admin.Post("/referral-reward", h.referralRewardHandler)
	admin.Post("/withdraw", h.withdrawHandler)

	return nil
}
