package patient

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
	g := api.Group("/patients")
	g.GET("", h.ListPatients)
	g.GET("/:id", h.GetPatient)
	g.POST("", h.CreatePatient)
	g.PUT("/:id", h.UpdatePatient)
	g.DELETE("/:id", h.DeletePatient)
}

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := h.svc.SearchPatients(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return apperr.Wrap(err, "Failed to fetch patients")
	}
	return c.JSON(http.StatusOK, web.List(patients))
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := web.ParseID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return apperr.Wrap(err, "Failed to fetch patient")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	p, err := h.svc.CreatePatient(c.Request().Context(), &in)
	if err != nil {
		return apperr.Wrap(err, "Failed to create patient")
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := web.ParseID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	p, err := h.svc.UpdatePatient(c.Request().Context(), id, &in)
	if err != nil {
		return apperr.Wrap(err, "Failed to update patient")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := web.ParseID(c, "id")
	if err != nil {
		return err
	}
	ok, err := h.svc.DeletePatient(c.Request().Context(), id)
	if err != nil {
		return apperr.Wrap(err, "Failed to delete patient")
	}
	if !ok {
		return ErrNotFound
	}
	return web.Message(c, "Patient deleted successfully")
}
