package handlers

import (
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/services"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

const actingUserHeader = "X-User-ID"

// RouteHandler exposes the route planning operations.
type RouteHandler struct {
	Planner   *services.RoutePlanner
	Directory ports.FleetDirectory
}

func RoutesRouter(router fiber.Router, h *RouteHandler) {
	router.Get("/", h.List)
	router.Post("/", h.Create)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Delete("/:id", h.Delete)
	router.Post("/:id/optimize", h.Optimize)
}

func viewGroup(c *fiber.Ctx, fallback string) (string, bool) {
	switch view := c.Query("view", fallback); view {
	case dto.GroupSummary, dto.GroupDetail:
		return view, true
	default:
		return "", false
	}
}

func (h *RouteHandler) List(c *fiber.Ctx) error {
	group, ok := viewGroup(c, dto.GroupSummary)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "view must be summary or detail")
	}

	vehicleID := strings.TrimSpace(c.Query("vehicle_id"))
	driverID := strings.TrimSpace(c.Query("driver_id"))
	status := strings.TrimSpace(c.Query("status"))

	set := 0
	for _, v := range []string{vehicleID, driverID, status} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return writeError(c, fiber.StatusBadRequest, "only one of vehicle_id, driver_id or status may be set")
	}

	ctx := c.UserContext()
	var routes []*domain.Route
	var err error
	switch {
	case vehicleID != "":
		routes, err = h.Planner.ListRoutesByVehicle(ctx, vehicleID)
	case driverID != "":
		routes, err = h.Planner.ListRoutesByDriver(ctx, driverID)
	case status != "":
		routes, err = h.Planner.ListRoutesByStatus(ctx, status)
	default:
		routes, err = h.Planner.ListRoutes(ctx)
	}
	if err != nil {
		return writeServiceError(c, err)
	}

	return h.writeRoutes(c, fiber.StatusOK, group, routes)
}

func (h *RouteHandler) Get(c *fiber.Ctx) error {
	group, ok := viewGroup(c, dto.GroupDetail)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "view must be summary or detail")
	}

	route, err := h.Planner.GetRoute(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeServiceError(c, err)
	}

	return h.writeRoute(c, fiber.StatusOK, group, route)
}

func (h *RouteHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRouteRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	actingUser := strings.TrimSpace(c.Get(actingUserHeader))
	if actingUser == "" {
		return writeError(c, fiber.StatusBadRequest, actingUserHeader+" header is required")
	}

	var svcReq services.CreateRouteRequest
	if err := copier.CopyWithOption(&svcReq, &req, copier.Option{DeepCopy: true}); err != nil {
		return writeServiceError(c, err)
	}

	route, err := h.Planner.CreateRoute(c.UserContext(), svcReq, actingUser)
	if err != nil {
		return writeServiceError(c, err)
	}

	return h.writeRoute(c, fiber.StatusCreated, dto.GroupDetail, route)
}

func (h *RouteHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateRouteRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	var svcReq services.UpdateRouteRequest
	if err := copier.CopyWithOption(&svcReq, &req, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
		return writeServiceError(c, err)
	}
	// A present but empty stop list removes every stop; absent leaves stops alone.
	if req.Stops == nil {
		svcReq.Stops = nil
	} else if svcReq.Stops == nil {
		svcReq.Stops = []services.StopInput{}
	}

	route, err := h.Planner.UpdateRoute(c.UserContext(), c.Params("id"), svcReq)
	if err != nil {
		return writeServiceError(c, err)
	}

	return h.writeRoute(c, fiber.StatusOK, dto.GroupDetail, route)
}

func (h *RouteHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.Planner.DeleteRoute(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	if !deleted {
		return writeError(c, fiber.StatusNotFound, "not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RouteHandler) Optimize(c *fiber.Ctx) error {
	route, err := h.Planner.OptimizeRoute(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeServiceError(c, err)
	}

	return h.writeRoute(c, fiber.StatusOK, dto.GroupDetail, route)
}

func (h *RouteHandler) writeRoute(c *fiber.Ctx, status int, group string, route *domain.Route) error {
	details, err := h.describe(c, group, []*domain.Route{route})
	if err != nil {
		return writeServiceError(c, err)
	}
	return writeGrouped(c, status, group, dto.NewRouteResponse(details[0]))
}

func (h *RouteHandler) writeRoutes(c *fiber.Ctx, status int, group string, routes []*domain.Route) error {
	details, err := h.describe(c, group, routes)
	if err != nil {
		return writeServiceError(c, err)
	}

	res := make([]dto.RouteResponse, 0, len(details))
	for _, d := range details {
		res = append(res, dto.NewRouteResponse(d))
	}
	return writeGrouped(c, status, group, fiber.Map{"routes": res})
}

// describe only consults the directory for the detail view.
func (h *RouteHandler) describe(c *fiber.Ctx, group string, routes []*domain.Route) ([]services.RouteDetails, error) {
	dir := h.Directory
	if group != dto.GroupDetail {
		dir = nil
	}
	return services.DescribeRoutes(c.UserContext(), dir, routes)
}
