package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrescreenVerdict(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "approved seco", raw: "approved", want: PRESCREEN_VERDICT_APPROVED},
		{name: "approved com texto", raw: "Verdict: APPROVED.", want: PRESCREEN_VERDICT_APPROVED},
		{name: "rejected", raw: "rejected", want: PRESCREEN_VERDICT_REJECTED},
		{name: "rejected ganha quando ambíguo", raw: "approved? no: rejected", want: PRESCREEN_VERDICT_REJECTED},
		{name: "pending", raw: "pending", want: PRESCREEN_VERDICT_PENDING},
		{name: "texto irreconhecível vira pending", raw: "não sei dizer", want: PRESCREEN_VERDICT_PENDING},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePrescreenVerdict(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePrescreenVerdict_EmptyIsError(t *testing.T) {
	_, err := ParsePrescreenVerdict("   ")
	assert.Error(t, err)
}
