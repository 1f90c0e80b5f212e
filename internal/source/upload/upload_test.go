package upload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/gcouto/patrimonio/internal/source"
	"github.com/gcouto/patrimonio/internal/source/upload"
)

func TestParse_InfersDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "Comma",
			data: "Data,Valor,Banco\n01/03/2024,\"R$ 1.000,00\",Nubank\n",
		},
		{
			name: "Semicolon",
			data: "Data;Valor;Banco\n01/03/2024;R$ 1.000,00;Nubank\n",
		},
		{
			name: "Tab",
			data: "Data\tValor\tBanco\n01/03/2024\tR$ 1.000,00\tNubank\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := upload.Parse([]byte(tt.data))
			require.NoError(t, err)

			assert.Equal(t, []string{"Data", "Valor", "Banco"}, table.Columns)
			require.Len(t, table.Rows, 1)
			assert.Equal(t, "R$ 1.000,00", table.Rows[0]["Valor"])
			assert.Equal(t, "Nubank", table.Rows[0]["Banco"])
		})
	}
}

func TestParse_Latin1Upload(t *testing.T) {
	// Legacy exports arrive as Windows-1252 rather than UTF-8.
	raw, err := charmap.Windows1252.NewEncoder().String("Data;Valor;Descrição\n01/03/2024;10,00;Aplicação\n")
	require.NoError(t, err)

	table, err := upload.Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, []string{"Data", "Valor", "Descrição"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Aplicação", table.Rows[0]["Descrição"])
}

func TestParse_RaggedRows(t *testing.T) {
	data := "Data,Valor,Banco\n01/03/2024,10,Nubank,extra\n02/03/2024,20\n"

	table, err := upload.Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	// Cells beyond the header are dropped; short rows leave the
	// remaining columns empty.
	assert.Equal(t, "Nubank", table.Rows[0]["Banco"])
	assert.Equal(t, "", table.Rows[1]["Banco"])
}

func TestParse_Unparseable(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "Empty", data: ""},
		{name: "HeaderOnly", data: "Data,Valor,Banco\n"},
		{name: "NoDelimiters", data: "just some prose\nwithout any structure\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := upload.Parse([]byte(tt.data))
			assert.ErrorIs(t, err, source.ErrUnparseable)
		})
	}
}
