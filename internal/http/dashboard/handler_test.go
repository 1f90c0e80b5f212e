package dashboard_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gcouto/patrimonio/internal/holdings"
	"github.com/gcouto/patrimonio/internal/http/dashboard"
	"github.com/gcouto/patrimonio/internal/source"
)

const (
	testWorkbook = "Planilha"
	testTab      = "Patrimonio"
)

func rawTable() source.Table {
	return source.Table{
		Columns: []string{"Data", "Valor", "Banco", "Tipo", "Ativo"},
		Rows: []source.Row{
			{"Data": "01/03/2024", "Valor": "R$ 1.000,00", "Banco": "Nubank", "Tipo": "Renda Fixa", "Ativo": "CDB"},
			{"Data": "01/03/2024", "Valor": "500,00", "Banco": "Inter", "Tipo": "Renda Fixa", "Ativo": "LCI"},
			{"Data": "Totais", "Valor": "1.500,00"},
		},
	}
}

func newServer(t *testing.T, fetches int) *chi.Mux {
	t.Helper()

	ctrl := gomock.NewController(t)
	src := source.NewMockSource(ctrl)
	src.EXPECT().
		Fetch(gomock.Any(), testWorkbook, testTab).
		Return(rawTable(), nil).
		Times(fetches)

	svc := holdings.NewService(source.NewCache(src), nil)

	r := chi.NewRouter()
	r.Route("/dashboard", dashboard.NewHandler(svc, testWorkbook, testTab).Routes)

	return r
}

func get(t *testing.T, srv http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}

	return rec
}

func TestListHoldings(t *testing.T) {
	srv := newServer(t, 1)

	var resp struct {
		Workbook string `json:"workbook"`
		Holdings []struct {
			Date   string `json:"date"`
			Amount string `json:"amount"`
		} `json:"holdings"`
		DroppedDates int `json:"dropped_dates"`
	}

	rec := get(t, srv, "/dashboard/holdings", &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, testWorkbook, resp.Workbook)
	require.Len(t, resp.Holdings, 2)
	assert.Equal(t, "2024-03-01", resp.Holdings[0].Date)
	assert.Equal(t, "1000.00", resp.Holdings[0].Amount)

	// The "Totais" footer row has no parseable date.
	assert.Equal(t, 1, resp.DroppedDates)
}

func TestSummary(t *testing.T) {
	srv := newServer(t, 1)

	var resp struct {
		Total          string `json:"total"`
		Assets         int    `json:"assets"`
		Institutions   int    `json:"institutions"`
		TopInstitution string `json:"top_institution"`
	}

	rec := get(t, srv, "/dashboard/summary", &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "1500.00", resp.Total)
	assert.Equal(t, 2, resp.Assets)
	assert.Equal(t, 2, resp.Institutions)
	assert.Equal(t, "Nubank", resp.TopInstitution)
}

func TestAggregate(t *testing.T) {
	srv := newServer(t, 1)

	var resp []struct {
		Label  string `json:"label"`
		Amount string `json:"amount"`
	}

	rec := get(t, srv, "/dashboard/aggregate?by=institution&top=1", &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, resp, 2)
	assert.Equal(t, "Nubank", resp[0].Label)
	assert.Equal(t, "1000.00", resp[0].Amount)
	assert.Equal(t, holdings.OtherLabel, resp[1].Label)
	assert.Equal(t, "500.00", resp[1].Amount)
}

func TestAggregate_BadParams(t *testing.T) {
	srv := newServer(t, 1)

	rec := get(t, srv, "/dashboard/aggregate?by=color", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, srv, "/dashboard/aggregate?top=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, srv, "/dashboard/aggregate?top=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvolution(t *testing.T) {
	srv := newServer(t, 1)

	var resp []struct {
		Date       string `json:"date"`
		Cumulative string `json:"cumulative"`
	}

	rec := get(t, srv, "/dashboard/evolution", &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, resp, 1)
	assert.Equal(t, "2024-03-01", resp[0].Date)
	assert.Equal(t, "1500.00", resp[0].Cumulative)
}

func TestInstitutions(t *testing.T) {
	srv := newServer(t, 1)

	var resp []struct {
		Institution string `json:"institution"`
		Total       string `json:"total"`
		Assets      []struct {
			AssetName string `json:"asset_name"`
			Share     string `json:"share"`
		} `json:"assets"`
	}

	rec := get(t, srv, "/dashboard/institutions", &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, resp, 2)
	assert.Equal(t, "Nubank", resp[0].Institution)
	assert.Equal(t, "1000.00", resp[0].Total)
	require.Len(t, resp[0].Assets, 1)
	assert.Equal(t, "CDB", resp[0].Assets[0].AssetName)
	assert.Equal(t, "100", resp[0].Assets[0].Share)
}

func TestReload(t *testing.T) {
	srv := newServer(t, 2)

	rec := get(t, srv, "/dashboard/holdings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Reload bypasses the cache, so the source is hit a second time.
	reloadRec := httptest.NewRecorder()
	srv.ServeHTTP(reloadRec, httptest.NewRequest(http.MethodPost, "/dashboard/reload", nil))
	assert.Equal(t, http.StatusOK, reloadRec.Code)
}

func TestFetchErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "Authentication", err: source.ErrAuthentication, want: http.StatusBadGateway},
		{name: "NotFound", err: source.ErrNotFound, want: http.StatusNotFound},
		{name: "Transient", err: source.ErrTransient, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			src := source.NewMockSource(ctrl)
			src.EXPECT().
				Fetch(gomock.Any(), testWorkbook, testTab).
				Return(source.Table{}, tt.err)

			svc := holdings.NewService(source.NewCache(src), nil)

			r := chi.NewRouter()
			r.Route("/dashboard", dashboard.NewHandler(svc, testWorkbook, testTab).Routes)

			rec := get(t, r, "/dashboard/holdings", nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
