package model_test

import (
	"testing"

	"pos/shared/model"

	"github.com/stretchr/testify/assert"
)

type line struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func TestJSONList_ValueAndScan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    model.JSONList[line]
		wantErr bool
	}{
		{
			name: "bytes",
			src:  []byte(`[{"name":"tea","quantity":2}]`),
			want: model.JSONList[line]{{Name: "tea", Quantity: 2}},
		},
		{
			name: "string",
			src:  `[{"name":"coffee","quantity":1}]`,
			want: model.JSONList[line]{{Name: "coffee", Quantity: 1}},
		},
		{
			name: "nil becomes empty",
			src:  nil,
			want: model.JSONList[line]{},
		},
		{
			name:    "unsupported type",
			src:     42,
			wantErr: true,
		},
		{
			name:    "malformed json",
			src:     []byte(`{`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.JSONList[line]

			err := got.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONList_ValueOfNil(t *testing.T) {
	var list model.JSONList[line]

	value, err := list.Value()

	assert.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}
