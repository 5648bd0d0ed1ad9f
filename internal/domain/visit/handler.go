package visit

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/visits/queue", h.GetQueue)
	api.GET("/visits/search", h.Search)
	api.POST("/visits", h.Register)
	api.POST("/visits/:id/start", h.Start)
	api.POST("/visits/call-next", h.CallNext)
	api.POST("/visits/current/cancel", h.Cancel)
	api.POST("/visits/current/complete", h.Complete)
	api.POST("/visits/resume", h.Resume)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoActiveVisit):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) GetQueue(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Queue())
}

func (h *Handler) Search(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Search(c.QueryParam("q")))
}

type registerRequest struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Age    int    `json:"age"`
	Phone  string `json:"phone"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p := &Patient{Name: req.Name, Gender: req.Gender, Age: req.Age, Phone: req.Phone}
	if err := h.svc.Register(p); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Start(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Start(id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CallNext(c echo.Context) error {
	p, err := h.svc.CallNext()
	if err != nil {
		return mapError(err)
	}
	if p == nil {
		return c.JSON(http.StatusOK, map[string]string{"message": "all waiting patients have been called"})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Cancel(c echo.Context) error {
	p, err := h.svc.Cancel()
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

type completeRequest struct {
	ConfirmSend bool `json:"confirm_send"`
}

func (h *Handler) Complete(c echo.Context) error {
	var req completeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Complete(req.ConfirmSend)
	if err != nil {
		var pending *PendingOrdersError
		if errors.As(err, &pending) {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"confirm_required": true,
				"pending_orders":   pending.Count,
				"error":            err.Error(),
			})
		}
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Resume(c echo.Context) error {
	p, err := h.svc.Resume()
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}
