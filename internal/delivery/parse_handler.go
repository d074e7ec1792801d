package delivery

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/slidepress/pptx2pdf/internal/parser"
)

const parserQueryPrefix = "parser_query_"

var errBadParserURL = errors.New("parser_url must start with http:// or https://")

// ConvertAndParse converts the upload and posts the resulting PDF to the
// downstream parser, relaying its JSON body. The parser URL is resolved
// before any conversion work so a request that cannot be forwarded never
// spawns a subprocess.
func (h *ConvertHandler) ConvertAndParse(w http.ResponseWriter, r *http.Request) {
	target, err := h.resolveParserURL(r)
	if err != nil {
		if errors.Is(err, errBadParserURL) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeError(w, err)
		return
	}

	opts, err := parserOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, ok := h.convertUpload(w, r)
	if !ok {
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "posting to parser: " + target,
		Service: "pptx2pdf",
	})

	payload, status, err := h.parser.Parse(r.Context(), target, res.PDF, res.Filename, opts)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(status)
	w.Write(payload)
}

// resolveParserURL picks the target with precedence query param > header >
// configured default. The resolved URL must be http or https.
func (h *ConvertHandler) resolveParserURL(r *http.Request) (string, error) {
	target := r.URL.Query().Get("parser_url")
	if target == "" {
		target = r.Header.Get("X-Parser-Url")
	}
	if target == "" {
		target = h.cfg.DefaultParserURL
	}
	if target == "" {
		return "", parser.ErrNoURL
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return "", errBadParserURL
	}
	return target, nil
}

// parserOptions builds the downstream call options from the inbound query:
// known form-field names override the defaults, parser_query_<name> params
// pass through to the parser URL.
func parserOptions(r *http.Request) (parser.Options, error) {
	opts := parser.Options{
		FormFields:  parser.DefaultFormFields(),
		QueryParams: map[string]string{},
	}

	for key, vals := range r.URL.Query() {
		if len(vals) == 0 || key == "parser_url" {
			continue
		}
		v := vals[0]
		if strings.HasPrefix(key, parserQueryPrefix) {
			name := strings.TrimPrefix(key, parserQueryPrefix)
			if name == "" {
				return opts, fmt.Errorf("parser_query_ prefix requires a field name")
			}
			opts.QueryParams[name] = v
			continue
		}
		if _, known := opts.FormFields[key]; known {
			opts.FormFields[key] = v
		}
	}

	return opts, nil
}
