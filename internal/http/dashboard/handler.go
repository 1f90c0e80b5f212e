package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gcouto/patrimonio/internal/holdings"
	"github.com/gcouto/patrimonio/internal/http/api"
)

type Handler struct {
	svc      *holdings.Service
	workbook string
	tab      string
}

func NewHandler(svc *holdings.Service, workbook, tab string) *Handler {
	return &Handler{svc: svc, workbook: workbook, tab: tab}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/holdings", h.listHoldings)
	r.Get("/summary", h.summary)
	r.Get("/aggregate", h.aggregate)
	r.Get("/evolution", h.evolution)
	r.Get("/institutions", h.institutions)
	r.Post("/reload", h.reload)
	r.Get("/mapping", h.getMapping)
	r.Put("/mapping", h.putMapping)
}

type holdingResponse struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Institution string `json:"institution"`
	AssetClass  string `json:"asset_class"`
	AssetName   string `json:"asset_name"`
}

type loadResponse struct {
	Workbook       string            `json:"workbook"`
	Tab            string            `json:"tab"`
	Columns        []string          `json:"columns"`
	Mapping        map[string]string `json:"mapping"`
	Holdings       []holdingResponse `json:"holdings"`
	DroppedDates   int               `json:"dropped_dates"`
	DroppedAmounts int               `json:"dropped_amounts"`
}

func (h *Handler) listHoldings(w http.ResponseWriter, r *http.Request) {
	load, err := h.svc.Load(r.Context(), h.workbook, h.tab)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toLoadResponse(load))
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	load, err := h.svc.Reload(r.Context(), h.workbook, h.tab)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toLoadResponse(load))
}

type summaryResponse struct {
	Total               string `json:"total"`
	Assets              int    `json:"assets"`
	Institutions        int    `json:"institutions"`
	TopInstitution      string `json:"top_institution,omitempty"`
	TopInstitutionTotal string `json:"top_institution_total,omitempty"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	load, err := h.svc.Load(r.Context(), h.workbook, h.tab)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	s := holdings.Summarize(load.Result.Holdings)

	resp := summaryResponse{
		Total:          s.Total.StringFixed(2),
		Assets:         s.Assets,
		Institutions:   s.Institutions,
		TopInstitution: s.TopInstitution,
	}
	if s.TopInstitution != "" {
		resp.TopInstitutionTotal = s.TopInstitutionTotal.StringFixed(2)
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

type groupResponse struct {
	Labels []string `json:"labels"`
	Label  string   `json:"label"`
	Amount string   `json:"amount"`
}

func (h *Handler) aggregate(w http.ResponseWriter, r *http.Request) {
	byParams := r.URL.Query()["by"]
	if len(byParams) == 0 {
		byParams = []string{string(holdings.FieldInstitution)}
	}

	fields := make([]holdings.Field, 0, len(byParams))

	for _, p := range byParams {
		f, err := holdings.ParseField(p)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		fields = append(fields, f)
	}

	load, err := h.svc.Load(r.Context(), h.workbook, h.tab)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	groups := holdings.GroupBy(load.Result.Holdings, fields...)

	if raw := r.URL.Query().Get("top"); raw != "" {
		topN, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "top must be an integer", http.StatusBadRequest)
			return
		}

		groups, err = holdings.CollapseTop(groups, topN)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	resp := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, groupResponse{
			Labels: g.Labels,
			Label:  g.Label(),
			Amount: g.Amount.StringFixed(2),
		})
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

type evolutionResponse struct {
	Date       string `json:"date"`
	Amount     string `json:"amount"`
	Cumulative string `json:"cumulative"`
}

func (h *Handler) evolution(w http.ResponseWriter, r *http.Request) {
	load, err := h.svc.Load(r.Context(), h.workbook, h.tab)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	points := holdings.Evolution(load.Result.Holdings)

	resp := make([]evolutionResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, evolutionResponse{
			Date:       p.Date.Format(time.DateOnly),
			Amount:     p.Amount.StringFixed(2),
			Cumulative: p.Cumulative.StringFixed(2),
		})
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

type assetShareResponse struct {
	AssetName  string `json:"asset_name"`
	AssetClass string `json:"asset_class"`
	Amount     string `json:"amount"`
	Share      string `json:"share"`
}

type institutionResponse struct {
	Institution string               `json:"institution"`
	Total       string               `json:"total"`
	Assets      []assetShareResponse `json:"assets"`
}

func (h *Handler) institutions(w http.ResponseWriter, r *http.Request) {
	load, err := h.svc.Load(r.Context(), h.workbook, h.tab)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	breakdowns := holdings.BreakdownByInstitution(load.Result.Holdings)

	resp := make([]institutionResponse, 0, len(breakdowns))

	for _, b := range breakdowns {
		ir := institutionResponse{
			Institution: b.Institution,
			Total:       b.Total.StringFixed(2),
			Assets:      make([]assetShareResponse, 0, len(b.Assets)),
		}

		for _, a := range b.Assets {
			ir.Assets = append(ir.Assets, assetShareResponse{
				AssetName:  a.AssetName,
				AssetClass: a.AssetClass,
				Amount:     a.Amount.StringFixed(2),
				Share:      a.Share.String(),
			})
		}

		resp = append(resp, ir)
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

type mappingResponse struct {
	Columns []string          `json:"columns"`
	Mapping map[string]string `json:"mapping"`
}

func (h *Handler) getMapping(w http.ResponseWriter, r *http.Request) {
	load, err := h.svc.Load(r.Context(), h.workbook, h.tab)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mappingResponse{
		Columns: load.Columns,
		Mapping: mappingToDTO(load.Mapping),
	})
}

func (h *Handler) putMapping(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	m := make(holdings.Mapping, len(body))
	for role, col := range body {
		m[holdings.Role(role)] = col
	}

	if err := h.svc.SetMapping(r.Context(), h.workbook, h.tab, m); err != nil {
		api.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toLoadResponse(load *holdings.Load) loadResponse {
	resp := loadResponse{
		Workbook:       load.Workbook,
		Tab:            load.Tab,
		Columns:        load.Columns,
		Mapping:        mappingToDTO(load.Mapping),
		Holdings:       make([]holdingResponse, 0, len(load.Result.Holdings)),
		DroppedDates:   load.Result.DroppedDates,
		DroppedAmounts: load.Result.DroppedAmounts,
	}

	for _, h := range load.Result.Holdings {
		resp.Holdings = append(resp.Holdings, holdingResponse{
			Date:        h.Date.Format(time.DateOnly),
			Amount:      h.Amount.StringFixed(2),
			Institution: h.Institution,
			AssetClass:  h.AssetClass,
			AssetName:   h.AssetName,
		})
	}

	return resp
}

func mappingToDTO(m holdings.Mapping) map[string]string {
	dto := make(map[string]string, len(m))
	for role, col := range m {
		dto[string(role)] = col
	}

	return dto
}
