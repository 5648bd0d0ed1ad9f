package orders

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ActiveVisit resolves the patient currently in consultation. Order
// mutations always apply to that patient's book.
type ActiveVisit interface {
	CurrentPatientID() (uuid.UUID, bool)
}

type Handler struct {
	svc      *Service
	active   ActiveVisit
	formulas FormulaSource
}

func NewHandler(svc *Service, active ActiveVisit) *Handler {
	return &Handler{svc: svc, active: active}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/orders", h.ListSnapshots)
	api.GET("/orders/:category", h.GetSnapshot)
	api.POST("/orders/:category/items", h.AddItem)
	api.PATCH("/orders/prescription/items/:id", h.UpdatePrescription)
	api.POST("/orders/items/:id/urgent", h.SetUrgent)
	api.DELETE("/orders/:category/items/:id", h.RemoveItem)
	api.POST("/orders/send", h.SendAll)
	api.POST("/orders/:category/clear-drafts", h.ClearDrafts)
	api.POST("/orders/herbal/formula", h.ApplyFormula)
}

func (h *Handler) currentPatient() (uuid.UUID, error) {
	id, ok := h.active.CurrentPatientID()
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusConflict, "no patient is in consultation")
	}
	return id, nil
}

func categoryParam(c echo.Context) (Category, error) {
	cat, err := ParseCategory(c.Param("category"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	return cat, nil
}

func idParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// mapError translates the order error taxonomy onto HTTP statuses.
func mapError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateItem),
		errors.Is(err, ErrAlreadyFinalized),
		errors.Is(err, ErrIllegalTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) ListSnapshots(c echo.Context) error {
	patientID, err := h.currentPatient()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.svc.Snapshots(patientID))
}

func (h *Handler) GetSnapshot(c echo.Context) error {
	patientID, err := h.currentPatient()
	if err != nil {
		return err
	}
	cat, err := categoryParam(c)
	if err != nil {
		return err
	}
	snap, err := h.svc.Snapshot(patientID, cat)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) AddItem(c echo.Context) error {
	patientID, err := h.currentPatient()
	if err != nil {
		return err
	}
	cat, err := categoryParam(c)
	if err != nil {
		return err
	}
	var req AddRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it, err := h.svc.Add(c.Request().Context(), patientID, cat, req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, it)
}

type prescriptionUpdateRequest struct {
	Dosage       *float64 `json:"dosage_per_administration"`
	Frequency    *string  `json:"frequency_code"`
	DurationDays *int     `json:"duration_days"`
	Route        *string  `json:"usage_route"`
	Merged       *bool    `json:"merged"`
	Detail       *string  `json:"detail"`
}

func (h *Handler) UpdatePrescription(c echo.Context) error {
	patientID, err := h.currentPatient()
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req prescriptionUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	upd := PrescriptionUpdate{
		Dosage:       req.Dosage,
		DurationDays: req.DurationDays,
		Merged:       req.Merged,
		Detail:       req.Detail,
	}
	if req.Frequency != nil {
		f, err := ParseFrequency(*req.Frequency)
		if err != nil {
			return mapError(err)
		}
		upd.Frequency = &f
	}
	if req.Route != nil {
		r, err := ParseRoute(*req.Route)
		if err != nil {
			return mapError(err)
		}
		upd.Route = &r
	}

	it, err := h.svc.UpdatePrescription(patientID, id, upd)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, it)
}

type urgentRequest struct {
	Urgent bool `json:"urgent"`
}

func (h *Handler) SetUrgent(c echo.Context) error {
	patientID, err := h.currentPatient()
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req urgentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it, err := h.svc.SetUrgent(patientID, id, req.Urgent)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) RemoveItem(c echo.Context) error {
	patientID, err := h.currentPatient()
	if err != nil {
		return err
	}
	cat, err := categoryParam(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	confirmed := c.QueryParam("confirm") == "true"

	if err := h.svc.Remove(patientID, cat, id, confirmed); err != nil {
		if errors.Is(err, ErrConfirmationRequired) {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"confirm_required": true,
				"error":            err.Error(),
			})
		}
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SendAll(c echo.Context) error {
	patientID, err := h.currentPatient()
	if err != nil {
		return err
	}
	sent, err := h.svc.SendAll(patientID)
	if err != nil {
		if errors.Is(err, ErrNothingToSend) {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"sent":    0,
				"message": "no draft orders to send",
			})
		}
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"sent": sent})
}

func (h *Handler) ClearDrafts(c echo.Context) error {
	patientID, err := h.currentPatient()
	if err != nil {
		return err
	}
	cat, err := categoryParam(c)
	if err != nil {
		return err
	}
	cleared, err := h.svc.ClearDrafts(patientID, cat)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"cleared": cleared})
}

// FormulaSource resolves a named herbal formula template.
type FormulaSource interface {
	Formula(name string) ([]FormulaHerb, bool)
}

type formulaRequest struct {
	Name string `json:"name"`
}

// SetFormulaSource wires the catalog's formula templates into the handler.
func (h *Handler) SetFormulaSource(src FormulaSource) { h.formulas = src }

func (h *Handler) ApplyFormula(c echo.Context) error {
	patientID, err := h.currentPatient()
	if err != nil {
		return err
	}
	var req formulaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if h.formulas == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no formula templates available")
	}
	herbs, ok := h.formulas.Formula(req.Name)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "formula not found")
	}
	if err := h.svc.ApplyFormula(patientID, req.Name, herbs); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"formula": req.Name})
}
