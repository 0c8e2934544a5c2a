package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Rrens/coworking-reservation/internal/api/response"
	"github.com/Rrens/coworking-reservation/internal/domain"
	"github.com/Rrens/coworking-reservation/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReservationHandler handles reservation endpoints
type ReservationHandler struct {
	reservationService *service.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// List handles listing reservations, optionally under /coworkings/{coworkingId}
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	var coworkingID primitive.ObjectID
	if raw := chi.URLParam(r, "coworkingId"); raw != "" {
		id, err := domain.ParseID(raw)
		if err != nil {
			response.InternalError(w, "Cannot find Reservation")
			return
		}
		coworkingID = id
	}

	reservations, err := h.reservationService.List(r.Context(), identity, coworkingID)
	if err != nil {
		log.Error().Err(err).Msg("list reservations failed")
		response.InternalError(w, "Cannot find Reservation")
		return
	}

	response.List(w, reservations, len(reservations), nil)
}

// Get handles fetching one reservation
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	rawID := chi.URLParam(r, "id")
	id, err := domain.ParseID(rawID)
	if err != nil {
		response.NotFound(w, noReservation(rawID))
		return
	}

	reservation, err := h.reservationService.Get(r.Context(), identity, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, noReservation(rawID))
		case errors.Is(err, domain.ErrNotAuthorized):
			response.Unauthorized(w, notAuthorized(identity, "view"))
		default:
			log.Error().Err(err).Str("reservation_id", rawID).Msg("get reservation failed")
			response.InternalError(w, "Cannot find Reservation")
		}
		return
	}

	response.OK(w, reservation)
}

// Create handles booking a window at the coworking in the path
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	rawID := chi.URLParam(r, "coworkingId")
	coworkingID, err := domain.ParseID(rawID)
	if err != nil {
		response.NotFound(w, noCoworking(rawID))
		return
	}

	// A missing space answers 404 whatever the body holds
	if err := h.reservationService.CheckCoworking(r.Context(), coworkingID); err != nil {
		writeCreateError(w, rawID, err)
		return
	}

	var input domain.ReservationCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	reservation, err := h.reservationService.Create(r.Context(), identity, coworkingID, input)
	if err != nil {
		writeCreateError(w, rawID, err)
		return
	}

	response.Created(w, reservation)
}

func writeCreateError(w http.ResponseWriter, rawID string, err error) {
	var limitErr *domain.LimitError
	var hoursErr *domain.OpeningHoursError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, noCoworking(rawID))
	case errors.As(err, &limitErr):
		response.BadRequest(w, fmt.Sprintf("The user with ID %s has already made %d reservations", limitErr.UserID, limitErr.Max))
	case errors.As(err, &hoursErr):
		response.BadRequest(w, fmt.Sprintf("Please make reservation within %s and %s", hoursErr.Open, hoursErr.Close))
	case errors.Is(err, domain.ErrInvalidTimeRange):
		response.BadRequest(w, "Please make valid reservation")
	default:
		log.Error().Err(err).Str("coworking_id", rawID).Msg("create reservation failed")
		response.InternalError(w, "Cannot create Reservation")
	}
}

// Update handles moving a reservation's window
func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	rawID := chi.URLParam(r, "id")
	id, err := domain.ParseID(rawID)
	if err != nil {
		response.NotFound(w, noReservation(rawID))
		return
	}

	// Existence and ownership are settled before the body is read
	if err := h.reservationService.CheckAccess(r.Context(), identity, id); err != nil {
		writeUpdateError(w, identity, rawID, err)
		return
	}

	var input domain.ReservationUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	reservation, err := h.reservationService.Update(r.Context(), identity, id, input)
	if err != nil {
		writeUpdateError(w, identity, rawID, err)
		return
	}

	response.OK(w, reservation)
}

func writeUpdateError(w http.ResponseWriter, identity domain.Identity, rawID string, err error) {
	var hoursErr *domain.OpeningHoursError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, noReservation(rawID))
	case errors.Is(err, domain.ErrNotAuthorized):
		response.Unauthorized(w, notAuthorized(identity, "update"))
	case errors.As(err, &hoursErr):
		response.BadRequest(w, fmt.Sprintf("Please update reservation within %s and %s", hoursErr.Open, hoursErr.Close))
	case errors.Is(err, domain.ErrInvalidTimeRange):
		response.BadRequest(w, "Please update valid reservation")
	default:
		log.Error().Err(err).Str("reservation_id", rawID).Msg("update reservation failed")
		response.InternalError(w, "Cannot update Reservation")
	}
}

// Delete handles removing a reservation
func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	rawID := chi.URLParam(r, "id")
	id, err := domain.ParseID(rawID)
	if err != nil {
		response.NotFound(w, noReservation(rawID))
		return
	}

	if err := h.reservationService.Delete(r.Context(), identity, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, noReservation(rawID))
		case errors.Is(err, domain.ErrNotAuthorized):
			response.Unauthorized(w, notAuthorized(identity, "delete"))
		default:
			log.Error().Err(err).Str("reservation_id", rawID).Msg("delete reservation failed")
			response.InternalError(w, "Cannot delete Reservation")
		}
		return
	}

	response.Empty(w)
}

func noReservation(id string) string {
	return fmt.Sprintf("No reservation with the id of %s", id)
}

func noCoworking(id string) string {
	return fmt.Sprintf("No coworking with the id of %s", id)
}

func notAuthorized(identity domain.Identity, action string) string {
	return fmt.Sprintf("User %s is not authorized to %s this reservation", identity.UserID.Hex(), action)
}
