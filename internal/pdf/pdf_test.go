package pdf

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, "A4", opts.Format)
	assert.False(t, opts.Landscape)
	assert.True(t, opts.PrintBackground)
	assert.Equal(t, "0mm", opts.MarginTop)
	assert.Equal(t, "0mm", opts.MarginBottom)
	assert.Equal(t, "0mm", opts.MarginLeft)
	assert.Equal(t, "0mm", opts.MarginRight)
	assert.Equal(t, 1.0, opts.Scale)
	assert.True(t, opts.PreferCSSPageSize)
	assert.Equal(t, 900, opts.ViewportWidth)
	assert.Equal(t, 2.0, opts.DeviceScaleFactor)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{name: "zero millimeters", input: "0mm", expected: 0},
		{name: "one inch in millimeters", input: "25.4mm", expected: 1},
		{name: "one inch in centimeters", input: "2.54cm", expected: 1},
		{name: "inches", input: "1in", expected: 1},
		{name: "pixels", input: "96px", expected: 1},
		{name: "points", input: "72pt", expected: 1},
		{name: "unitless is pixels", input: "48", expected: 0.5},
		{name: "half inch in millimeters", input: "12.7mm", expected: 0.5},
		{name: "padded", input: " 1in ", expected: 1},
		{name: "empty is zero", input: "", expected: 0},
		{name: "garbage", input: "wide", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestPageDimensions(t *testing.T) {
	tests := []struct {
		name           string
		format         string
		expectedWidth  float64
		expectedHeight float64
		wantErr        bool
	}{
		{name: "a4", format: "A4", expectedWidth: 8.27, expectedHeight: 11.69},
		{name: "a4 lowercase", format: "a4", expectedWidth: 8.27, expectedHeight: 11.69},
		{name: "letter", format: "Letter", expectedWidth: 8.5, expectedHeight: 11},
		{name: "empty leaves size to chromium", format: ""},
		{name: "unknown", format: "A9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width, height, err := pageDimensions(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expectedWidth, width, 1e-9)
			assert.InDelta(t, tt.expectedHeight, height, 1e-9)
		})
	}
}

func TestResolveDimensions(t *testing.T) {
	tests := []struct {
		name           string
		opts           Options
		expectedWidth  float64
		expectedHeight float64
		measure        bool
		wantErr        string
	}{
		{
			name:           "format only",
			opts:           Options{Format: "Letter"},
			expectedWidth:  8.5,
			expectedHeight: 11,
		},
		{
			name:           "width beats format",
			opts:           Options{Format: "A4", Width: "900px", Height: "1200px"},
			expectedWidth:  9.375,
			expectedHeight: 12.5,
		},
		{
			name:          "width without height measures the page",
			opts:          Options{Width: "8in"},
			expectedWidth: 8,
			measure:       true,
		},
		{
			name:    "bad width",
			opts:    Options{Width: "wide"},
			wantErr: "width",
		},
		{
			name:    "bad height",
			opts:    Options{Width: "8in", Height: "tall"},
			wantErr: "height",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width, height, measure, err := resolveDimensions(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expectedWidth, width, 1e-9)
			assert.InDelta(t, tt.expectedHeight, height, 1e-9)
			assert.Equal(t, tt.measure, measure)
		})
	}
}

func TestParseMargins(t *testing.T) {
	opts := DefaultOptions()
	opts.MarginTop = "25.4mm"
	opts.MarginLeft = "1in"

	m, err := parseMargins(opts)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.top, 1e-9)
	assert.InDelta(t, 0.0, m.bottom, 1e-9)
	assert.InDelta(t, 1.0, m.left, 1e-9)

	opts.MarginBottom = "thick"
	_, err = parseMargins(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "margin_bottom")
}

func TestClient_Convert(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 demo document")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/convert", r.URL.Path)

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "<html><body>report</body></html>", req["html"])
		assert.Equal(t, "A4", req["format"])
		assert.Equal(t, true, req["print_background"])
		assert.EqualValues(t, 900, req["viewport_width"])
		assert.EqualValues(t, 2, req["device_scale_factor"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"pdf_base64":     base64.StdEncoding.EncodeToString(pdfBytes),
			"size_bytes":     len(pdfBytes),
			"render_time_ms": 42,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.Convert(context.Background(), "<html><body>report</body></html>", DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, pdfBytes, result.PDF)
	assert.Equal(t, int64(42), result.RenderTimeMS)
}

func TestClient_ConvertHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Convert(context.Background(), "<html></html>", DefaultOptions())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_ConvertInvalidBase64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"pdf_base64": "not-base64!!!"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Convert(context.Background(), "<html></html>", DefaultOptions())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base64")
}
