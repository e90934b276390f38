package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stealdeals/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Password",
			input:  []byte(`{"email":"admin@deals.in","password":"abc123"}`),
			output: []byte(`{"email":"[MASKED]","password":"[MASKED]"}`),
		},
		{
			name:   "Password capital letter",
			input:  []byte(`{"hello":"world","Password":"abc123"}`),
			output: []byte(`{"hello":"world","Password":"[MASKED]"}`),
		},
		{
			name:   "Access token",
			input:  []byte(`{"accessToken":"q1w2e3r4t5y6","expiresAt":"2026-01-01T00:00:00Z"}`),
			output: []byte(`{"accessToken":"[MASKED]","expiresAt":"2026-01-01T00:00:00Z"}`),
		},
		{
			name:   "Authorization header",
			input:  []byte("GET /v1/admin/deals HTTP/1.1\r\nAuthorization: Bearer q1w2e3r4t5y6\r\n"),
			output: []byte("GET /v1/admin/deals HTTP/1.1\r\nAuthorization: Bearer [MASKED]\r\n"),
		},
		{
			name:   "Deal payload untouched",
			input:  []byte(`{"title":"Pixel 9","category":"Mobiles"}`),
			output: []byte(`{"title":"Pixel 9","category":"Mobiles"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}

func TestParseLevel(t *testing.T) {
	rq := require.New(t)

	rq.Equal("DEBUG", logx.ParseLevel("debug").String())
	rq.Equal("WARN", logx.ParseLevel(" Warning ").String())
	rq.Equal("ERROR", logx.ParseLevel("error").String())
	rq.Equal("INFO", logx.ParseLevel("verbose").String())
}
