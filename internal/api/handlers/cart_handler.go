package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promokit/bogo-promo-service/internal/engine"
	"github.com/promokit/bogo-promo-service/internal/models"
	"github.com/promokit/bogo-promo-service/internal/service"
)

// --- Request / Response DTOs ---

type AddItemRequest struct {
	ProductID int `json:"product_id"`
	Qty       int `json:"qty"`
}

type UpdateItemRequest struct {
	Qty int `json:"qty"`
}

type CartLineView struct {
	ID            string           `json:"id"`
	ProductID     int              `json:"product_id"`
	Quantity      int              `json:"quantity"`
	UnitPrice     string           `json:"unit_price"`
	LineTotal     string           `json:"line_total"`
	IsGift        bool             `json:"is_gift"`
	GiftRuleIndex *int             `json:"gift_rule_index,omitempty"`
	Removable     bool             `json:"removable"`
	Hint          *models.Hint     `json:"hint,omitempty"`
	Grab          *models.GrabMeta `json:"grab,omitempty"`
}

type CartResponse struct {
	Session   string         `json:"session"`
	Items     []CartLineView `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  string         `json:"subtotal"`
}

// --- Handler struct & constructor ---

type CartHandler struct {
	svc *service.PromoService
}

func NewCartHandler(svc *service.PromoService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) cartResponse(r *http.Request, c *models.Cart) CartResponse {
	hints := h.svc.LineHints(r.Context(), c)
	items := make([]CartLineView, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, CartLineView{
			ID:            l.ID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice.StringFixed(2),
			LineTotal:     l.LineTotal().StringFixed(2),
			IsGift:        l.IsGift,
			GiftRuleIndex: l.GiftRuleIndex,
			Removable:     engine.Removable(l),
			Hint:          hints[l.ID],
			Grab:          l.Grab,
		})
	}
	return CartResponse{
		Session:   c.ID,
		Items:     items,
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal().StringFixed(2),
	}
}

func cartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrProductNotFound), errors.Is(err, models.ErrLineNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrOutOfStock):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrGiftLine):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
	}
}

// --- Handlers ---

// CreateCart handles POST /cart and opens a fresh session.
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	session := h.svc.NewSession()
	writeJSON(w, http.StatusCreated, map[string]string{"session": session})
}

// GetCart handles GET /cart/{session}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	c := h.svc.Cart(r.Context(), session)
	writeJSON(w, http.StatusOK, h.cartResponse(r, c))
}

// AddItem handles POST /cart/{session}/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if req.ProductID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id required"})
		return
	}

	c, err := h.svc.AddToCart(r.Context(), session, req.ProductID, req.Qty)
	if err != nil {
		cartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartResponse(r, c))
}

// UpdateItem handles PUT /cart/{session}/items/{line}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	lineID := chi.URLParam(r, "line")

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if req.Qty < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "qty must be positive"})
		return
	}

	c, err := h.svc.UpdateQuantity(r.Context(), session, lineID, req.Qty)
	if err != nil {
		cartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartResponse(r, c))
}

// RemoveItem handles DELETE /cart/{session}/items/{line}.
// Gift lines are protected: removal is refused with 403.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	lineID := chi.URLParam(r, "line")

	c, err := h.svc.RemoveLine(r.Context(), session, lineID)
	if err != nil {
		cartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartResponse(r, c))
}
