package upload

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gcouto/patrimonio/internal/holdings"
	"github.com/gcouto/patrimonio/internal/http/api"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc *holdings.Service
}

func NewHandler(svc *holdings.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
}

type holdingResponse struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Institution string `json:"institution"`
	AssetClass  string `json:"asset_class"`
	AssetName   string `json:"asset_name"`
}

type uploadResponse struct {
	Columns        []string          `json:"columns"`
	Mapping        map[string]string `json:"mapping"`
	Holdings       []holdingResponse `json:"holdings"`
	Total          string            `json:"total"`
	DroppedDates   int               `json:"dropped_dates"`
	DroppedAmounts int               `json:"dropped_amounts"`
}

// upload accepts a multipart form with a "file" field holding the
// delimited export, plus optional per-role column overrides named
// after the roles (date, amount, institution, asset_class, asset_name).
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "reading file: "+err.Error(), http.StatusBadRequest)
		return
	}

	override := make(holdings.Mapping)

	for _, role := range holdings.Roles {
		if col := r.FormValue(string(role)); col != "" {
			override[role] = col
		}
	}

	load, err := h.svc.NormalizeUpload(data, override)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	resp := uploadResponse{
		Columns:        load.Columns,
		Mapping:        make(map[string]string, len(load.Mapping)),
		Holdings:       make([]holdingResponse, 0, len(load.Result.Holdings)),
		Total:          load.Result.Total().StringFixed(2),
		DroppedDates:   load.Result.DroppedDates,
		DroppedAmounts: load.Result.DroppedAmounts,
	}

	for role, col := range load.Mapping {
		resp.Mapping[string(role)] = col
	}

	for _, rec := range load.Result.Holdings {
		resp.Holdings = append(resp.Holdings, holdingResponse{
			Date:        rec.Date.Format(time.DateOnly),
			Amount:      rec.Amount.StringFixed(2),
			Institution: rec.Institution,
			AssetClass:  rec.AssetClass,
			AssetName:   rec.AssetName,
		})
	}

	api.WriteJSON(w, http.StatusCreated, resp)
}
