package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amit001112/HospitalBilling/internal/platform/apperr"
	"github.com/amit001112/HospitalBilling/internal/platform/web"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/service-items")
	g.GET("", h.ListServiceItems)
	g.GET("/:id", h.GetServiceItem)
	g.POST("", h.CreateServiceItem)
	g.PUT("/:id", h.UpdateServiceItem)
	g.DELETE("/:id", h.DeleteServiceItem)
}

func (h *Handler) ListServiceItems(c echo.Context) error {
	items, err := h.svc.ListServiceItems(c.Request().Context())
	if err != nil {
		return apperr.Wrap(err, "Failed to fetch service items")
	}
	return c.JSON(http.StatusOK, web.List(items))
}

func (h *Handler) GetServiceItem(c echo.Context) error {
	id, err := web.ParseID(c, "id")
	if err != nil {
		return err
	}
	it, err := h.svc.GetServiceItem(c.Request().Context(), id)
	if err != nil {
		return apperr.Wrap(err, "Failed to fetch service item")
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) CreateServiceItem(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	it, err := h.svc.CreateServiceItem(c.Request().Context(), &in)
	if err != nil {
		return apperr.Wrap(err, "Failed to create service item")
	}
	return c.JSON(http.StatusCreated, it)
}

func (h *Handler) UpdateServiceItem(c echo.Context) error {
	id, err := web.ParseID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	it, err := h.svc.UpdateServiceItem(c.Request().Context(), id, &in)
	if err != nil {
		return apperr.Wrap(err, "Failed to update service item")
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) DeleteServiceItem(c echo.Context) error {
	id, err := web.ParseID(c, "id")
	if err != nil {
		return err
	}
	ok, err := h.svc.DeleteServiceItem(c.Request().Context(), id)
	if err != nil {
		return apperr.Wrap(err, "Failed to delete service item")
	}
	if !ok {
		return ErrNotFound
	}
	return web.Message(c, "Service item deleted successfully")
}
