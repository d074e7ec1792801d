package parser

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"
)

var (
	ErrNoURL    = errors.New("parser url is not configured")
	ErrUpstream = errors.New("parser request failed")
)

// Options tunes one downstream parse call.
type Options struct {
	// FormFields are sent as multipart form values next to the PDF.
	FormFields map[string]string
	// QueryParams are appended to the parser URL.
	QueryParams map[string]string
}

type Client interface {
	// Parse posts the PDF to the parser at url and returns its JSON body
	// together with the upstream status code.
	Parse(ctx context.Context, url string, pdf []byte, filename string, opts Options) (json.RawMessage, int, error)
}

// DefaultFormFields is the field set the downstream file_parse endpoint
// expects; values here are its documented defaults.
func DefaultFormFields() map[string]string {
	return map[string]string{
		"return_middle_json":  "false",
		"return_model_output": "false",
		"return_md":           "true",
		"return_images":       "false",
		"end_page_id":         "99999",
		"parse_method":        "auto",
		"start_page_id":       "0",
		"lang_list":           "ch",
		"output_dir":          "./output",
		"server_url":          "string",
		"return_content_list": "false",
		"backend":             "pipeline",
		"table_enable":        "true",
		"formula_enable":      "true",
	}
}
