package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amit001112/HospitalBilling/internal/platform/apperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/stats", h.GetStats)
}

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return apperr.Wrap(err, "Failed to fetch dashboard stats")
	}
	return c.JSON(http.StatusOK, stats)
}
