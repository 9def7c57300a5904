// Package pdf turns rendered report HTML into PDF documents, either
// in-process with headless Chromium or through a remote rendering service.
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Converter renders an HTML document into a PDF.
type Converter interface {
	Convert(ctx context.Context, html string, opts Options) (*Result, error)
}

// Options mirror the request schema of the rendering service. Margins,
// Width and Height are CSS lengths ("0mm", "0.5in", "900px"). An explicit
// Width beats the named Format; Width without Height sizes the page to the
// rendered content. An empty Format leaves the page size to the document's
// @page rules.
type Options struct {
	Format            string  `json:"format,omitempty"`
	Landscape         bool    `json:"landscape"`
	PrintBackground   bool    `json:"print_background"`
	MarginTop         string  `json:"margin_top"`
	MarginBottom      string  `json:"margin_bottom"`
	MarginLeft        string  `json:"margin_left"`
	MarginRight       string  `json:"margin_right"`
	Scale             float64 `json:"scale"`
	PreferCSSPageSize bool    `json:"prefer_css_page_size"`
	ViewportWidth     int     `json:"viewport_width"`
	Width             string  `json:"width,omitempty"`
	Height            string  `json:"height,omitempty"`
	DeviceScaleFactor float64 `json:"device_scale_factor"`
	ColorScheme       string  `json:"color_scheme,omitempty"`
}

// URLOptions extend Options for live-page conversion: an optional element
// to wait for before printing, and the load budget in milliseconds.
type URLOptions struct {
	Options
	WaitForSelector string `json:"wait_for_selector,omitempty"`
	WaitTimeoutMS   int    `json:"wait_timeout,omitempty"`
}

// DefaultOptions match the rendering service defaults: A4 portrait, zero
// margins, backgrounds printed, CSS @page rules respected.
func DefaultOptions() Options {
	return Options{
		Format:            "A4",
		PrintBackground:   true,
		MarginTop:         "0mm",
		MarginBottom:      "0mm",
		MarginLeft:        "0mm",
		MarginRight:       "0mm",
		Scale:             1.0,
		PreferCSSPageSize: true,
		ViewportWidth:     900,
		DeviceScaleFactor: 2,
	}
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 1.0
	}
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = 900
	}
	if o.DeviceScaleFactor <= 0 {
		o.DeviceScaleFactor = 2
	}
	return o
}

// Result is a rendered PDF document.
type Result struct {
	PDF          []byte
	RenderTimeMS int64
}

// Paper sizes in inches, matching the formats the original rendering
// service accepted.
var paperFormats = map[string][2]float64{
	"a3":      {11.69, 16.54},
	"a4":      {8.27, 11.69},
	"a5":      {5.83, 8.27},
	"letter":  {8.5, 11},
	"legal":   {8.5, 14},
	"tabloid": {11, 17},
}

// pageDimensions resolves the named format into paper width and height in
// inches. An empty format returns zeros, leaving the size to Chromium.
func pageDimensions(format string) (width, height float64, err error) {
	if format == "" {
		return 0, 0, nil
	}
	size, ok := paperFormats[strings.ToLower(format)]
	if !ok {
		return 0, 0, fmt.Errorf("unsupported page format %q", format)
	}
	return size[0], size[1], nil
}

// resolveDimensions picks the paper size in inches. An explicit width beats
// the named format; width without height asks the renderer to measure the
// page and is signalled by measure.
func resolveDimensions(opts Options) (width, height float64, measure bool, err error) {
	if opts.Width == "" {
		width, height, err = pageDimensions(opts.Format)
		return width, height, false, err
	}

	if width, err = parseSize(opts.Width); err != nil {
		return 0, 0, false, fmt.Errorf("width: %w", err)
	}
	if opts.Height == "" {
		return width, 0, true, nil
	}
	if height, err = parseSize(opts.Height); err != nil {
		return 0, 0, false, fmt.Errorf("height: %w", err)
	}
	return width, height, false, nil
}

type pageMargins struct {
	top, bottom, left, right float64
}

func parseMargins(opts Options) (pageMargins, error) {
	var m pageMargins
	var err error
	if m.top, err = parseSize(opts.MarginTop); err != nil {
		return m, fmt.Errorf("margin_top: %w", err)
	}
	if m.bottom, err = parseSize(opts.MarginBottom); err != nil {
		return m, fmt.Errorf("margin_bottom: %w", err)
	}
	if m.left, err = parseSize(opts.MarginLeft); err != nil {
		return m, fmt.Errorf("margin_left: %w", err)
	}
	if m.right, err = parseSize(opts.MarginRight); err != nil {
		return m, fmt.Errorf("margin_right: %w", err)
	}
	return m, nil
}

// parseSize converts a CSS length into inches. Unitless values are pixels,
// matching how the original service interpreted them.
func parseSize(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	unit := "px"
	num := s
	for _, u := range []string{"mm", "cm", "in", "px", "pt"} {
		if strings.HasSuffix(s, u) {
			unit = u
			num = strings.TrimSuffix(s, u)
			break
		}
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	switch unit {
	case "mm":
		return value / 25.4, nil
	case "cm":
		return value / 2.54, nil
	case "in":
		return value, nil
	case "pt":
		return value / 72, nil
	default:
		return value / 96, nil
	}
}
