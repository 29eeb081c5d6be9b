package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWhatsAppTo(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "celular BR com DDD", raw: "(11) 98765-4321", want: "5511987654321"},
		{name: "fixo BR com DDD", raw: "11 3456-7890", want: "551134567890"},
		{name: "já com DDI", raw: "+55 11 98765-4321", want: "5511987654321"},
		{name: "vazio", raw: "", wantErr: true},
		{name: "curto demais", raw: "98765", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeWhatsAppTo(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
