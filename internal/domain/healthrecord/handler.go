package healthrecord

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carebook/carebook/internal/platform/auth"
	"github.com/carebook/carebook/internal/platform/filestore"
	"github.com/carebook/carebook/pkg/pagination"
)

type Handler struct {
	svc    *Service
	signer *auth.Signer
}

func NewHandler(svc *Service, signer *auth.Signer) *Handler {
	return &Handler{svc: svc, signer: signer}
}

// RegisterRoutes wires the patient-owned record endpoints and the doctor's
// read-only view over the records of their patients.
func (h *Handler) RegisterRoutes(patients, doctors *echo.Group) {
	asPatient := auth.Require(h.signer, auth.RolePatient)
	patients.POST("/:patientId/health-records", h.Upload, asPatient)
	patients.GET("/:patientId/health-records", h.ListForPatient, asPatient)
	patients.DELETE("/:patientId/health-records/:recordId", h.Delete, asPatient)

	doctors.GET("/:doctorId/patient-records", h.ListForDoctor, auth.Require(h.signer, auth.RoleDoctor))
}

func (h *Handler) Upload(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if err := auth.RequireOwner(c, patientID); err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field 'file' is required")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "open uploaded file")
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	rec, err := h.svc.Upload(c.Request().Context(), patientID, fh.Filename, contentType, src)
	if err != nil {
		switch {
		case errors.Is(err, filestore.ErrInvalidFileType),
			errors.Is(err, filestore.ErrMissingFileName),
			errors.Is(err, filestore.ErrFileTooLarge):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "store health record")
		}
	}
	return c.JSON(http.StatusCreated, rec)
}

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
		return echo.NewHTTPError(http.StatusInternalServerError, "list health records")
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
	items, total, err := h.svc.ListByDoctor(c.Request().Context(), doctorID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list patient records")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) Delete(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	if err := auth.RequireOwner(c, patientID); err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), patientID, recordID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "delete health record")
		}
	}
	return c.NoContent(http.StatusNoContent)
}
