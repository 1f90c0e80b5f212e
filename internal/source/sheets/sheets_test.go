package sheets

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/gcouto/patrimonio/internal/source"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "Unauthorized",
			err:  &googleapi.Error{Code: 401, Message: "invalid credentials"},
			want: source.ErrAuthentication,
		},
		{
			name: "Forbidden",
			err:  &googleapi.Error{Code: 403, Message: "caller does not have permission"},
			want: source.ErrAuthentication,
		},
		{
			name: "NotFound",
			err:  &googleapi.Error{Code: 404, Message: "requested entity was not found"},
			want: source.ErrNotFound,
		},
		{
			name: "MissingTab",
			err:  &googleapi.Error{Code: 400, Message: "Unable to parse range: Inexistente"},
			want: source.ErrNotFound,
		},
		{
			name: "BadRequestOtherwise",
			err:  &googleapi.Error{Code: 400, Message: "invalid argument"},
			want: source.ErrTransient,
		},
		{
			name: "ServerError",
			err:  &googleapi.Error{Code: 503, Message: "backend error"},
			want: source.ErrTransient,
		},
		{
			name: "NetworkFailure",
			err:  &net.OpError{Op: "dial", Err: errors.New("connection refused")},
			want: source.ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "R$ 1.000,00", cellString("R$ 1.000,00"))
	assert.Equal(t, "42", cellString(42))
}
