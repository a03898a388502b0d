package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carebook/carebook/internal/platform/auth"
	"github.com/carebook/carebook/pkg/pagination"
)

type Handler struct {
	svc    *Service
	signer *auth.Signer
}

func NewHandler(svc *Service, signer *auth.Signer) *Handler {
	return &Handler{svc: svc, signer: signer}
}

// RegisterRoutes wires the public discovery endpoints onto the appointments
// group and the role-gated booking, transition, and listing endpoints onto
// each actor's group.
func (h *Handler) RegisterRoutes(appointments, hospitals, doctors, patients *echo.Group) {
	appointments.GET("/specializations", h.Specializations)
	appointments.GET("/hospitals", h.Hospitals)
	appointments.GET("/hospitals/specialization/:specialization", h.HospitalsBySpecialization)
	appointments.GET("/hospitals/:hospitalId/specializations", h.SpecializationsForHospital)
	appointments.GET("/doctors", h.Doctors)
	appointments.GET("/timeslots", h.Timeslots)

	asPatient := auth.Require(h.signer, auth.RolePatient)
	appointments.POST("/:patientId/book", h.Book, asPatient)
	appointments.GET("/:patientId/appointments", h.ListForPatient, asPatient)
	patients.GET("/:patientId/appointments", h.ListForPatient, asPatient)

	asHospital := auth.Require(h.signer, auth.RoleHospital)
	hospitals.PUT("/:hospitalId/appointments/:appointmentId/status", h.UpdateStatus, asHospital)
	hospitals.GET("/:hospitalId/pending-appointments", h.ListPendingForHospital, asHospital)

	doctors.GET("/:doctorId/appointments", h.ListForDoctor, auth.Require(h.signer, auth.RoleDoctor))
}

// -- Discovery --

func (h *Handler) Specializations(c echo.Context) error {
	items, err := h.svc.Specializations(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list specializations")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"specializations": items})
}

func (h *Handler) Hospitals(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.Hospitals(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list hospitals")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) HospitalsBySpecialization(c echo.Context) error {
	specialization := c.Param("specialization")
	p := pagination.FromContext(c)
	items, total, err := h.svc.HospitalsBySpecialization(c.Request().Context(), specialization, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list hospitals")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) SpecializationsForHospital(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("hospitalId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}
	items, err := h.svc.SpecializationsByHospital(c.Request().Context(), hospitalID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list specializations")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"specializations": items})
}

func (h *Handler) Doctors(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.QueryParam("hospital_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital_id")
	}
	specialization := c.QueryParam("specialization")
	if specialization == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "specialization is required")
	}

	p := pagination.FromContext(c)
	items, total, err := h.svc.Doctors(c.Request().Context(), hospitalID, specialization, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list doctors")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) Timeslots(c echo.Context) error {
	doctorID, err := uuid.Parse(c.QueryParam("doctor_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
	}
	slots, err := h.svc.Timeslots(c.Request().Context(), doctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "list timeslots")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"timeslots": slots})
}

// -- Booking & transitions --

func (h *Handler) Book(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if err := auth.RequireOwner(c, patientID); err != nil {
		return err
	}

	var in BookInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Book(c.Request().Context(), patientID, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrDoctorNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrSlotTaken):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrHospitalMismatch), errors.Is(err, ErrSlotNotOffered):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, a)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("hospitalId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}
	appointmentID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	if err := auth.RequireOwner(c, hospitalID); err != nil {
		return err
	}

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), hospitalID, appointmentID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrForeignHospital):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, ErrTerminalStatus), errors.Is(err, ErrBadTransition), errors.Is(err, ErrStatusChanged):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, a)
}

// -- Listings --

func (h *Handler) ListForPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if err := auth.RequireOwner(c, patientID); err != nil {
		return err
	}

	p := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list appointments")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	if err := auth.RequireOwner(c, doctorID); err != nil {
		return err
	}

	p := pagination.FromContext(c)
	items, total, err := h.svc.ListApprovedByDoctor(c.Request().Context(), doctorID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list appointments")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) ListPendingForHospital(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("hospitalId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}
	if err := auth.RequireOwner(c, hospitalID); err != nil {
		return err
	}

	p := pagination.FromContext(c)
	items, total, err := h.svc.ListPendingByHospital(c.Request().Context(), hospitalID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list appointments")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}
