package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/core/services"
)

const TenantHeader = "X-Tenant-ID"

type ReservationHandler struct {
	svc *services.ReservationService
	log logrus.FieldLogger
}

func NewReservationHandler(svc *services.ReservationService, log logrus.FieldLogger) *ReservationHandler {
	return &ReservationHandler{svc: svc, log: log}
}

func (h *ReservationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/reservations", h.CreateReservation).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}", h.GetReservation).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", h.UpdateReservation).Methods(http.MethodPatch)
	api.HandleFunc("/reservations/{id}", h.DeleteReservation).Methods(http.MethodDelete)
	api.HandleFunc("/reservations/{id}/paid", h.MarkPaid).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}/no-show", h.MarkNoShow).Methods(http.MethodPost)
	api.HandleFunc("/groups/{groupId}", h.GetGroup).Methods(http.MethodGet)
	api.HandleFunc("/units/{unitId}/calendar", h.GetCalendar).Methods(http.MethodGet)
	api.HandleFunc("/finance/summary", h.GetFinanceSummary).Methods(http.MethodGet)
}

func (h *ReservationHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidPayload, "invalid json body", nil)
		return
	}

	cmd, err := req.toCommand(tenantID)
	if err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.svc.CreateReservation(r.Context(), cmd)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toStayResponse(res))
}

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.reservationRef(w, r)
	if !ok {
		return
	}

	res, err := h.svc.GetReservation(r.Context(), ref)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toReservationResponse(*res))
}

func (h *ReservationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.reservationRef(w, r)
	if !ok {
		return
	}

	var req updateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidPayload, "invalid json body", nil)
		return
	}

	cmd, err := req.toCommand(ref.TenantID, ref.ID)
	if err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.svc.UpdateReservation(r.Context(), cmd)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toStayResponse(res))
}

func (h *ReservationHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.reservationRef(w, r)
	if !ok {
		return
	}

	res, err := h.svc.DeleteReservation(r.Context(), ref)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.reservationRef(w, r)
	if !ok {
		return
	}

	res, err := h.svc.MarkPaid(r.Context(), ref)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toStayResponse(res))
}

func (h *ReservationHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.reservationRef(w, r)
	if !ok {
		return
	}

	res, err := h.svc.MarkNoShow(r.Context(), ref)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toReservationResponse(*res))
}

func (h *ReservationHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "groupId")
	if !ok {
		return
	}

	segments, err := h.svc.ListGroup(r.Context(), tenantID, groupID)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stayResponse{GroupID: &groupID, Segments: toReservationResponses(segments)})
}

func (h *ReservationHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	unitID, ok := pathUUID(w, r, "unitId")
	if !ok {
		return
	}
	from, to, err := rangeParams(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	segments, err := h.svc.Calendar(r.Context(), tenantID, unitID, from, to)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toReservationResponses(segments))
}

func (h *ReservationHandler) GetFinanceSummary(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	from, to, err := rangeParams(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	summary, err := h.svc.FinanceSummary(r.Context(), tenantID, from, to)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (h *ReservationHandler) tenant(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get(TenantHeader))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidTenant, "missing or invalid tenant id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ReservationHandler) reservationRef(w http.ResponseWriter, r *http.Request) (services.ReservationRef, bool) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return services.ReservationRef{}, false
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return services.ReservationRef{}, false
	}
	return services.ReservationRef{TenantID: tenantID, ID: id}, true
}

func (h *ReservationHandler) fail(w http.ResponseWriter, err error) {
	status, code, details := classify(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		h.log.WithError(err).Error("Reservation request failed")
		message = "internal server error"
	}

	respondError(w, status, code, message, details)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondError(w, http.StatusBadRequest, string(domain.KindValidation), "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func rangeParams(r *http.Request) (time.Time, time.Time, error) {
	from, err := parseDateField("from", r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDateField("to", r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func classify(err error) (int, string, any) {
	var (
		blacklist *domain.BlacklistConflict
		capacity  *domain.CapacityConflict
		overlap   *domain.OverlapConflict
	)

	switch {
	case errors.As(err, &blacklist):
		return http.StatusConflict, string(domain.KindBlacklist), blacklist
	case errors.As(err, &capacity):
		return http.StatusConflict, string(domain.KindCapacity), capacity
	case errors.As(err, &overlap):
		return http.StatusConflict, string(domain.KindOverlap), overlap
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, string(domain.KindValidation), nil
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, string(domain.KindNotFound), nil
	}

	return http.StatusInternalServerError, string(domain.KindStorage), nil
}
