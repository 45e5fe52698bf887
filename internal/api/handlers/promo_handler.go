package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"

	"github.com/promokit/bogo-promo-service/internal/config"
	"github.com/promokit/bogo-promo-service/internal/models"
	"github.com/promokit/bogo-promo-service/internal/service"
)

// --- Request / Response DTOs ---

type GrabRequestBody struct {
	BuyProduct       string `json:"buy_product"`
	BuyQty           int    `json:"buy_qty"`
	GetProduct       int    `json:"get_product"`
	GetQty           int    `json:"get_qty"`
	Discount         int    `json:"discount"`
	RuleIndex        int    `json:"rule_index"`
	ContextProductID int    `json:"context_product_id"`
	Session          string `json:"session"`
}

type GrabResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	CartCount int    `json:"cart_count,omitempty"`
	CartURL   string `json:"cart_url,omitempty"`
}

type HintResponse struct {
	HintHTML       string `json:"hint_html"`
	RemainingQty   int    `json:"remaining_qty"`
	GetQty         int    `json:"get_qty"`
	GetProductName string `json:"get_product_name"`
	DiscountText   string `json:"discount_text"`
}

// --- Handler struct & constructor ---

type PromoHandler struct {
	svc     *service.PromoService
	palette config.Palette
}

func NewPromoHandler(svc *service.PromoService, cfg *config.Config) *PromoHandler {
	return &PromoHandler{svc: svc, palette: cfg.ActivePalette()}
}

// --- Handlers ---

// GrabOffer handles POST /promo/grab. Validation failures come back as
// an inline {success:false, message} payload for the storefront.
func (h *PromoHandler) GrabOffer(w http.ResponseWriter, r *http.Request) {
	var req GrabRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, GrabResponse{Success: false, Message: "invalid_body"})
		return
	}
	if req.Session == "" {
		writeJSON(w, http.StatusBadRequest, GrabResponse{Success: false, Message: "session required"})
		return
	}

	res, err := h.svc.GrabOffer(r.Context(), service.GrabRequest{
		BuyProduct:       req.BuyProduct,
		BuyQty:           req.BuyQty,
		GetProduct:       req.GetProduct,
		GetQty:           req.GetQty,
		Discount:         req.Discount,
		RuleIndex:        req.RuleIndex,
		ContextProductID: req.ContextProductID,
		Session:          req.Session,
	})
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) || errors.Is(err, models.ErrOutOfStock) {
			writeJSON(w, http.StatusOK, GrabResponse{Success: false, Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, GrabResponse{Success: false, Message: "internal_error"})
		return
	}

	writeJSON(w, http.StatusOK, GrabResponse{
		Success:   true,
		CartCount: res.CartCount,
		CartURL:   res.CartURL,
	})
}

// Hint handles GET /promo/hint?product_id=&session=
func (h *PromoHandler) Hint(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(r.URL.Query().Get("product_id"))
	if err != nil || productID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id required"})
		return
	}
	session := r.URL.Query().Get("session")

	hint, err := h.svc.Hint(r.Context(), session, productID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	if hint == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no_hint"})
		return
	}

	writeJSON(w, http.StatusOK, HintResponse{
		HintHTML:       h.hintHTML(hint),
		RemainingQty:   hint.RemainingQty,
		GetQty:         hint.GetQty,
		GetProductName: hint.GetProductName,
		DiscountText:   hint.DiscountText,
	})
}

func (h *PromoHandler) hintHTML(hint *models.Hint) string {
	msg := fmt.Sprintf("Buy %d more to get %d x %s %s",
		hint.RemainingQty, hint.GetQty, html.EscapeString(hint.GetProductName), hint.DiscountText)
	return fmt.Sprintf(
		`<span class="bogo-hint" style="color:%s;background-color:%s;border-color:%s">%s</span>`,
		h.palette.Text, h.palette.Background, h.palette.Accent, msg,
	)
}
