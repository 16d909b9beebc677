package billing

import (
	"errors"
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
	g := api.Group("/bills")
	g.GET("", h.ListBills)
	g.GET("/:id", h.GetBill)
	g.POST("", h.CreateBill)
	g.DELETE("/:id", h.DeleteBill)
	g.PATCH("/:id/status", h.UpdateBillStatus)
}

// ListBills serves GET /bills, optionally filtered by ?patientId=.
func (h *Handler) ListBills(c echo.Context) error {
	patientID, filtered, err := web.QueryID(c, "patientId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var bills []*BillWithItems
	if filtered {
		bills, err = h.svc.ListBillsForPatient(ctx, patientID)
	} else {
		bills, err = h.svc.ListBills(ctx)
	}
	if err != nil {
		return apperr.Wrap(err, "Failed to fetch bills")
	}
	return c.JSON(http.StatusOK, web.List(bills))
}

func (h *Handler) GetBill(c echo.Context) error {
	id, err := web.ParseID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.svc.GetBill(c.Request().Context(), id)
	if err != nil {
		return apperr.Wrap(err, "Failed to fetch bill")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) CreateBill(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		if errors.Is(err, ErrInvalidDate) {
			return apperr.Validation(apperr.Field("Invalid date", "billDate"))
		}
		return err
	}
	b, err := h.svc.CreateBill(c.Request().Context(), &in)
	if err != nil {
		return apperr.Wrap(err, "Failed to create bill")
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) DeleteBill(c echo.Context) error {
	id, err := web.ParseID(c, "id")
	if err != nil {
		return err
	}
	ok, err := h.svc.DeleteBill(c.Request().Context(), id)
	if err != nil {
		return apperr.Wrap(err, "Failed to delete bill")
	}
	if !ok {
		return ErrNotFound
	}
	return web.Message(c, "Bill deleted successfully")
}

type statusResponse struct {
	Message string         `json:"message"`
	Bill    *BillWithItems `json:"bill"`
}

func (h *Handler) UpdateBillStatus(c echo.Context) error {
	id, err := web.ParseID(c, "id")
	if err != nil {
		return err
	}
	var in StatusInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	b, err := h.svc.UpdateBillStatus(c.Request().Context(), id, in.Status)
	if err != nil {
		return apperr.Wrap(err, "Failed to update bill status")
	}
	return c.JSON(http.StatusOK, statusResponse{Message: "Bill status updated successfully", Bill: b})
}
