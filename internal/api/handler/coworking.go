package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Rrens/coworking-reservation/internal/api/response"
	"github.com/Rrens/coworking-reservation/internal/domain"
	"github.com/Rrens/coworking-reservation/internal/security"
	"github.com/Rrens/coworking-reservation/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CoworkingHandler handles coworking directory endpoints.
// Every failure here answers 400, including a missing space.
type CoworkingHandler struct {
	coworkingService *service.CoworkingService
	sanitizer        *security.QuerySanitizer
}

// NewCoworkingHandler creates a new coworking handler
func NewCoworkingHandler(coworkingService *service.CoworkingService, sanitizer *security.QuerySanitizer) *CoworkingHandler {
	return &CoworkingHandler{
		coworkingService: coworkingService,
		sanitizer:        sanitizer,
	}
}

// List handles filtered, paginated listing
func (h *CoworkingHandler) List(w http.ResponseWriter, r *http.Request) {
	values, dropped := h.sanitizer.Sanitize(r.URL.Query())
	if len(dropped) > 0 {
		log.Warn().Strs("keys", dropped).Msg("dropped query parameters")
	}

	q := domain.ParseListQuery(values)
	page, err := h.coworkingService.List(r.Context(), q)
	if err != nil {
		log.Debug().Err(err).Msg("list coworkings failed")
		response.BadRequest(w, nil)
		return
	}

	if !q.Projected() {
		response.List(w, page.Items, len(page.Items), &page.Pagination)
		return
	}

	// Unselected fields decode as zero values, so render only what was asked for
	rows := make([]map[string]json.RawMessage, 0, len(page.Items))
	for _, c := range page.Items {
		row, err := c.Project(q.Select, q.Omit)
		if err != nil {
			log.Debug().Err(err).Msg("project coworking failed")
			response.BadRequest(w, nil)
			return
		}
		rows = append(rows, row)
	}
	response.List(w, rows, len(rows), &page.Pagination)
}

// Get handles fetching one coworking
func (h *CoworkingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, nil)
		return
	}

	coworking, err := h.coworkingService.Get(r.Context(), id)
	if err != nil {
		response.BadRequest(w, nil)
		return
	}

	response.OK(w, coworking)
}

// Create handles coworking creation
func (h *CoworkingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.CoworkingCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	coworking, err := h.coworkingService.Create(r.Context(), input)
	if err != nil {
		h.writeWriteError(w, err)
		return
	}

	response.Created(w, coworking)
}

// Update handles a partial coworking update
func (h *CoworkingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, nil)
		return
	}

	var input domain.CoworkingUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	coworking, err := h.coworkingService.Update(r.Context(), id, input)
	if err != nil {
		h.writeWriteError(w, err)
		return
	}

	response.OK(w, coworking)
}

// Delete removes a coworking and its reservations
func (h *CoworkingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	notFound := fmt.Sprintf("Coworking not found with id of %s", rawID)

	id, err := domain.ParseID(rawID)
	if err != nil {
		response.BadRequest(w, notFound)
		return
	}

	if err := h.coworkingService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.BadRequest(w, notFound)
			return
		}
		log.Error().Err(err).Str("coworking_id", rawID).Msg("delete coworking failed")
		response.BadRequest(w, nil)
		return
	}

	response.Empty(w)
}

func (h *CoworkingHandler) writeWriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		response.BadRequest(w, "A coworking space with that name already exists")
	case errors.Is(err, domain.ErrNotFound):
		response.BadRequest(w, nil)
	default:
		log.Error().Err(err).Msg("coworking write failed")
		response.BadRequest(w, nil)
	}
}
