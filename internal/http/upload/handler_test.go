package upload_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gcouto/patrimonio/internal/holdings"
	"github.com/gcouto/patrimonio/internal/http/upload"
	"github.com/gcouto/patrimonio/internal/source"
)

func newServer(t *testing.T) *chi.Mux {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := holdings.NewService(source.NewCache(source.NewMockSource(ctrl)), nil)

	r := chi.NewRouter()
	r.Route("/upload", upload.NewHandler(svc).Routes)

	return r
}

func multipartBody(t *testing.T, file string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "patrimonio.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(file))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func post(t *testing.T, srv http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	return rec
}

func TestUpload(t *testing.T) {
	srv := newServer(t)

	body, contentType := multipartBody(t,
		"Data;Valor;Banco;Tipo;Ativo\n01/03/2024;R$ 1.000,00;Nubank;Renda Fixa;CDB\n02/03/2024;;Inter;Renda Fixa;LCI\n",
		nil,
	)

	rec := post(t, srv, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Columns        []string          `json:"columns"`
		Mapping        map[string]string `json:"mapping"`
		Total          string            `json:"total"`
		DroppedAmounts int               `json:"dropped_amounts"`
		Holdings       []struct {
			Institution string `json:"institution"`
		} `json:"holdings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, []string{"Data", "Valor", "Banco", "Tipo", "Ativo"}, resp.Columns)
	assert.Equal(t, "Valor", resp.Mapping["amount"])
	assert.Equal(t, "1000.00", resp.Total)
	assert.Equal(t, 1, resp.DroppedAmounts)
	require.Len(t, resp.Holdings, 1)
	assert.Equal(t, "Nubank", resp.Holdings[0].Institution)
}

func TestUpload_OverrideFields(t *testing.T) {
	srv := newServer(t)

	body, contentType := multipartBody(t,
		"Data;Valor;Saldo Final;Banco\n01/03/2024;1,00;99,00;Nubank\n",
		map[string]string{"amount": "Saldo Final"},
	)

	rec := post(t, srv, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Mapping map[string]string `json:"mapping"`
		Total   string            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Saldo Final", resp.Mapping["amount"])
	assert.Equal(t, "99.00", resp.Total)
}

func TestUpload_UnparseableFile(t *testing.T) {
	srv := newServer(t)

	body, contentType := multipartBody(t, "not a delimited file", nil)

	rec := post(t, srv, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_BadAmountColumn(t *testing.T) {
	srv := newServer(t)

	body, contentType := multipartBody(t,
		"Data;Valor;Banco\n01/03/2024;abc;Nubank\n",
		nil,
	)

	rec := post(t, srv, body, contentType)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpload_MissingFileField(t *testing.T) {
	srv := newServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("amount", "Valor"))
	require.NoError(t, w.Close())

	rec := post(t, srv, &buf, w.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
