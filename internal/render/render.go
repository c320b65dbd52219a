// Package render formats the typed report structs produced by each
// analyzer (internal/model) as JSON, Markdown, or an aligned terminal
// table, per spec.md §6's "serialized enums use lowercase names" /
// omitempty convention. Report structs already carry the right json tags;
// this package only decides how to lay out the Markdown/text views that
// encoding/json cannot produce on its own.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/panbanda/omen/internal/model"
)

// Format selects the output encoding for Render.
type Format string

// Supported output formats. Unknown values are rejected by Render.
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ErrUnsupportedFormat is returned by Render for any Format other than the
// three constants above.
var ErrUnsupportedFormat = fmt.Errorf("unsupported render format")

// ErrUnsupportedReport is returned by Render when v's concrete type has no
// registered Markdown/text renderer (JSON always succeeds for any value).
var ErrUnsupportedReport = fmt.Errorf("unsupported report type")

// Render formats v (one of the internal/model report types) in the given
// format. JSON output uses json.MarshalIndent with a two-space indent;
// Markdown and text output dispatch on v's concrete type to a
// report-specific layout.
func Render(format Format, v any) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(v)
	case FormatMarkdown:
		return renderMarkdown(v)
	case FormatText:
		return renderText(v)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func renderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	return string(data), nil
}

// reportView is implemented by every internal/model report type this
// package knows how to lay out as Markdown and text.
type reportView interface {
	markdown() string
	text() string
}

func asView(v any) (reportView, error) {
	switch report := v.(type) {
	case *model.ChurnReport:
		return churnView{report}, nil
	case model.ChurnReport:
		return churnView{&report}, nil
	case *model.OwnershipReport:
		return ownershipView{report}, nil
	case model.OwnershipReport:
		return ownershipView{&report}, nil
	case *model.CouplingReport:
		return couplingView{report}, nil
	case model.CouplingReport:
		return couplingView{&report}, nil
	case *model.HotspotReport:
		return hotspotView{report}, nil
	case model.HotspotReport:
		return hotspotView{&report}, nil
	case *model.DefectReport:
		return defectView{report}, nil
	case model.DefectReport:
		return defectView{&report}, nil
	case *model.MutationReport:
		return mutationView{report}, nil
	case model.MutationReport:
		return mutationView{&report}, nil
	case *model.SearchReport:
		return searchView{report}, nil
	case model.SearchReport:
		return searchView{&report}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedReport, v)
	}
}

func renderMarkdown(v any) (string, error) {
	view, err := asView(v)
	if err != nil {
		return "", err
	}

	return view.markdown(), nil
}

func renderText(v any) (string, error) {
	view, err := asView(v)
	if err != nil {
		return "", err
	}

	return view.text(), nil
}
