// Package report lists the downloadable reports offered by the front office.
// Generation itself is not implemented; every known report answers 501.
package report

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Definition describes a report the UI can request.
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Predefined is the list of reports the UI offers for download.
var Predefined = []Definition{
	{
		ID:          "daily-revenue",
		Name:        "Daily Revenue Report",
		Description: "Bill totals per day",
	},
	{
		ID:          "patient-list",
		Name:        "Patient List Report",
		Description: "All registered patients with contact details",
	},
	{
		ID:          "outstanding-bills",
		Name:        "Outstanding Bills Report",
		Description: "Pending and overdue bills with their patients",
	},
}

// Find looks up a report by ID.
func Find(id string) *Definition {
	for i := range Predefined {
		if Predefined[i].ID == id {
			return &Predefined[i]
		}
	}
	return nil
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/reports")
	g.GET("", h.ListReports)
	g.GET("/:type", h.GetReport)
}

func (h *Handler) ListReports(c echo.Context) error {
	return c.JSON(http.StatusOK, Predefined)
}

type pendingResponse struct {
	Message string      `json:"message"`
	Report  *Definition `json:"report"`
}

// GetReport answers 404 for unknown types and 501 for known ones.
func (h *Handler) GetReport(c echo.Context) error {
	def := Find(c.Param("type"))
	if def == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Report not found")
	}
	return c.JSON(http.StatusNotImplemented, pendingResponse{
		Message: def.Name + " is not available yet",
		Report:  def,
	})
}
