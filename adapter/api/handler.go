package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	billingApp "github.com/felixgeelhaar/duet/internal/billing/application"
	contentApp "github.com/felixgeelhaar/duet/internal/content/application"
	"github.com/felixgeelhaar/duet/internal/content/catalog"
	contentDomain "github.com/felixgeelhaar/duet/internal/content/domain"
	pairingApp "github.com/felixgeelhaar/duet/internal/pairing/application"
	pairingDomain "github.com/felixgeelhaar/duet/internal/pairing/domain"
	"github.com/google/uuid"
)

// Handler serves the pairing and content endpoints for one user.
type Handler struct {
	userID   uuid.UUID
	pairing  *pairingApp.Service
	billing  *billingApp.Service
	progress *contentApp.ProgressService
	stream   *contentApp.StreamBuilder
	logger   *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	userID uuid.UUID,
	pairing *pairingApp.Service,
	billing *billingApp.Service,
	progress *contentApp.ProgressService,
	stream *contentApp.StreamBuilder,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		userID:   userID,
		pairing:  pairing,
		billing:  billing,
		progress: progress,
		stream:   stream,
		logger:   logger,
	}
}

type codeResponse struct {
	Code      string    `json:"code"`
	ShareText string    `json:"share_text"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GenerateCode issues a fresh partner code.
func (h *Handler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	issued, err := h.pairing.GeneratePartnerCode(r.Context())
	if err != nil {
		if errors.Is(err, pairingDomain.ErrGenerationRefused) {
			writeError(w, http.StatusConflict, "already paired")
			return
		}
		h.logger.Warn("code generation failed", "error", err)
		writeError(w, http.StatusBadGateway, "code generation failed, retry")
		return
	}

	writeJSON(w, http.StatusCreated, codeResponse{
		Code:      issued.Code.String(),
		ShareText: issued.Code.ShareText(),
		ExpiresAt: issued.ExpiresAt,
	})
}

type connectRequest struct {
	Code string `json:"code"`
}

type connectionResponse struct {
	PartnerID uuid.UUID `json:"partner_id"`
	Inherited bool      `json:"subscription_inherited"`
}

// Connect redeems a partner's code.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.pairing.ConnectWithPartnerCode(r.Context(), req.Code)
	if err != nil {
		status, message := connectFailure(err)
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, connectionResponse{
		PartnerID: result.Partner.PartnerID,
		Inherited: result.Inherited,
	})
}

func connectFailure(err error) (int, string) {
	switch {
	case errors.Is(err, pairingDomain.ErrInvalidCodeFormat):
		return http.StatusBadRequest, "code must be 8 letters or digits"
	case errors.Is(err, pairingDomain.ErrCodeNotFound):
		return http.StatusNotFound, "code not found"
	case errors.Is(err, pairingDomain.ErrCodeExpired):
		return http.StatusGone, "code expired"
	case errors.Is(err, pairingDomain.ErrSelfPairing):
		return http.StatusUnprocessableEntity, "cannot pair with yourself"
	case errors.Is(err, pairingDomain.ErrAlreadyPaired):
		return http.StatusConflict, "already paired"
	default:
		return http.StatusBadGateway, "connection failed"
	}
}

type statusResponse struct {
	Paired     bool       `json:"paired"`
	PartnerID  *uuid.UUID `json:"partner_id,omitempty"`
	Subscribed bool       `json:"subscribed"`
}

// Status reports the pairing and subscription state of the user.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := statusResponse{}
	result, err := h.pairing.CheckExistingConnection(ctx)
	if err != nil {
		h.logger.Warn("connection lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, "connection lookup failed")
		return
	}
	if result != nil {
		resp.Paired = true
		partnerID := result.Partner.PartnerID
		resp.PartnerID = &partnerID
	}

	subscribed, err := h.billing.IsSubscribed(ctx, h.userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "subscription lookup failed")
		return
	}
	resp.Subscribed = subscribed

	writeJSON(w, http.StatusOK, resp)
}

type categoryResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsPremium  bool   `json:"is_premium"`
	TotalItems int    `json:"total_items"`
	Accessible int    `json:"accessible_items"`
}

// ListCategories returns all categories with the user's progress.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories := catalog.Categories()
	out := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		count, err := h.progress.AccessibleItemCount(ctx, category.ID, category.TotalItems)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "progress lookup failed")
			return
		}
		out = append(out, categoryResponse{
			ID:         category.ID.String(),
			Name:       category.Name,
			IsPremium:  category.IsPremium,
			TotalItems: category.TotalItems,
			Accessible: count,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type cardResponse struct {
	Kind       string `json:"kind"`
	Text       string `json:"text,omitempty"`
	Position   int    `json:"position,omitempty"`
	PackNumber int    `json:"pack_number,omitempty"`
}

// Stream returns the ordered card stream for a category.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category, ok := catalog.FindCategory(r.PathValue("categoryID"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown category")
		return
	}

	subscribed, err := h.billing.IsSubscribed(ctx, h.userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "subscription lookup failed")
		return
	}

	cards, err := h.stream.Build(ctx, category, catalog.Items(category.ID), subscribed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stream build failed")
		return
	}

	out := make([]cardResponse, 0, len(cards))
	for _, card := range cards {
		resp := cardResponse{Kind: string(card.Kind), PackNumber: card.PackNumber}
		if card.Kind == contentDomain.CardItem {
			resp.Text = card.Item.Text
			resp.Position = card.Item.Position
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

type unlockResponse struct {
	Accessible int  `json:"accessible_items"`
	TotalItems int  `json:"total_items"`
	MorePacks  bool `json:"more_packs"`
}

// UnlockPack unlocks the next pack in a category.
func (h *Handler) UnlockPack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category, ok := catalog.FindCategory(r.PathValue("categoryID"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown category")
		return
	}

	if err := h.progress.UnlockNextPack(ctx, category.ID, category.TotalItems); err != nil {
		writeError(w, http.StatusInternalServerError, "unlock failed")
		return
	}

	count, err := h.progress.AccessibleItemCount(ctx, category.ID, category.TotalItems)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "progress lookup failed")
		return
	}
	more, err := h.progress.HasMorePacks(ctx, category.ID, category.TotalItems)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "progress lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, unlockResponse{
		Accessible: count,
		TotalItems: category.TotalItems,
		MorePacks:  more,
	})
}
