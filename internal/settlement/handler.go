package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/divvyup/divvy/internal/group"
	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/pkg/middleware"
	"github.com/divvyup/divvy/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/confirm", h.Confirm)
	r.Post("/{id}/reject", h.Reject)

	// Group-based views
	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/group/{groupId}/settle-up", h.SettleUp)

	return r
}

// Create handles POST /settlements
// @Summary      Record a settlement
// @Description  Record a direct payment from the authenticated user to another member; the balance effect commits with the record
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body CreateSettlementRequest true "Settlement request"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		payerID = 1
	}

	var req CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	settlement, err := h.service.Create(r.Context(), payerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrCannotSettleSelf), errors.Is(err, ledger.ErrMemberNotFound):
			response.BadRequest(w, err.Error())
		case errors.Is(err, group.ErrGroupNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to create settlement")
		}
		return
	}

	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}

// GetByID handles GET /settlements/{id}
// @Summary      Get settlement by ID
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	settlement, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSettlementNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get settlement")
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// Confirm handles POST /settlements/{id}/confirm
// @Summary      Confirm a settlement
// @Description  Receiver acknowledges the payment arrived
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/confirm [post]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Confirm)
}

// Reject handles POST /settlements/{id}/reject
// @Summary      Reject a settlement
// @Description  Receiver denies the payment; the recorded balance effect is reversed
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Reject)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, settlementID, userID int64) (*Settlement, error)) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	settlement, err := op(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSettlementNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotReceiver):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrStatusConflict):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to update settlement")
		}
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// ListByGroup handles GET /settlements/group/{groupId}
// @Summary      List settlements by group
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /settlements/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	settlements, total, err := h.service.ListByGroupID(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list settlements")
		return
	}

	responses := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		responses[i] = s.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, responses, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// SettleUp handles GET /settlements/group/{groupId}/settle-up
// @Summary      Suggest settle-up payments
// @Description  Greedy simplification of the group's current balances into a short list of payments
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]SimplifiedDebt}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/settle-up [get]
func (h *Handler) SettleUp(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	payments, err := h.service.SettleUp(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute settle-up")
		return
	}

	if payments == nil {
		payments = []SimplifiedDebt{}
	}

	response.JSON(w, http.StatusOK, payments)
}
