package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opd/console/internal/domain/orders"
	"github.com/opd/console/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/catalog", h.Search)
	api.GET("/catalog/categories", h.Categories)
	api.GET("/catalog/formulas", h.Formulas)
}

// Search serves the order panel's pick list. Without a category the
// whole catalog is returned; q filters by name or pinyin initials.
func (h *Handler) Search(c echo.Context) error {
	var cat orders.Category
	if raw := c.QueryParam("category"); raw != "" {
		parsed, err := orders.ParseCategory(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		cat = parsed
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.Search(c.Request().Context(), cat, c.QueryParam("q"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, orders.AllCategories())
}

func (h *Handler) Formulas(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Formulas())
}
