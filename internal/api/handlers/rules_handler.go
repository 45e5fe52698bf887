package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/promokit/bogo-promo-service/internal/models"
	"github.com/promokit/bogo-promo-service/internal/service"
)

// --- Request / Response DTOs ---

type RuleRequest struct {
	BuyProduct string `json:"buy_product"`
	BuyQty     int    `json:"buy_qty"`
	GetProduct int    `json:"get_product"`
	GetQty     int    `json:"get_qty"`
	Discount   int    `json:"discount"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
}

type RulesResponse struct {
	Rules []service.RuleView `json:"rules"`
}

// --- Handler struct & constructor ---

type RulesHandler struct {
	svc *service.PromoService
}

func NewRulesHandler(svc *service.PromoService) *RulesHandler {
	return &RulesHandler{svc: svc}
}

// Incomplete rules are stored as-is; the engine skips malformed ones.
// Only unparseable fields are rejected.
func (req RuleRequest) validate() string {
	if req.Discount < 0 || req.Discount > 100 {
		return "discount must be in [0,100]"
	}
	for _, d := range []string{req.StartDate, req.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return "dates must be YYYY-MM-DD"
		}
	}
	return ""
}

func (req RuleRequest) rule() models.Rule {
	return models.Rule{
		BuyProduct: req.BuyProduct,
		BuyQty:     req.BuyQty,
		GetProduct: req.GetProduct,
		GetQty:     req.GetQty,
		Discount:   req.Discount,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
}

// --- Handlers ---

// List handles GET /admin/rules
func (h *RulesHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListRules(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed_list_rules"})
		return
	}
	if views == nil {
		views = []service.RuleView{}
	}
	writeJSON(w, http.StatusOK, RulesResponse{Rules: views})
}

// Create handles POST /admin/rules
func (h *RulesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	index, err := h.svc.CreateRule(r.Context(), req.rule())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed_create_rule"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "rule_created",
		"rule_index": index,
	})
}

// Update handles PUT /admin/rules/{index}
func (h *RulesHandler) Update(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_index"})
		return
	}

	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	if err := h.svc.UpdateRule(r.Context(), index, req.rule()); err != nil {
		if errors.Is(err, models.ErrRuleNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "rule_not_found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed_update_rule"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "rule_updated"})
}

// Delete handles DELETE /admin/rules/{index}
func (h *RulesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_index"})
		return
	}

	if err := h.svc.DeleteRule(r.Context(), index); err != nil {
		if errors.Is(err, models.ErrRuleNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "rule_not_found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed_delete_rule"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "rule_deleted"})
}
