package handlers

import (
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

type StopHandler struct {
	Planner *services.RoutePlanner
}

func StopsRouter(router fiber.Router, h *StopHandler) {
	router.Patch("/:id/status", h.UpdateStatus)
}

func (h *StopHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStopStatusRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	var svcReq services.UpdateStopStatusRequest
	if err := copier.Copy(&svcReq, &req); err != nil {
		return writeServiceError(c, err)
	}

	stop, err := h.Planner.UpdateStopStatus(c.UserContext(), c.Params("id"), svcReq)
	if err != nil {
		return writeServiceError(c, err)
	}

	return writeGrouped(c, fiber.StatusOK, dto.GroupDetail, dto.NewStopResponse(stop))
}
