package delivery

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	json "github.com/goccy/go-json"

	"github.com/slidepress/pptx2pdf/internal/config"
	"github.com/slidepress/pptx2pdf/internal/office"
	"github.com/slidepress/pptx2pdf/internal/parser"
)

type ConvertHandler struct {
	office *office.Service
	parser parser.Client
	cfg    config.Config
	log    *logger.ZapLogger
}

func NewConvertHandler(officeService *office.Service, parserClient parser.Client, cfg config.Config, log *logger.ZapLogger) *ConvertHandler {
	return &ConvertHandler{
		office: officeService,
		parser: parserClient,
		cfg:    cfg,
		log:    log,
	}
}

func (h *ConvertHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"status":     "ok",
		"parser_url": h.cfg.DefaultParserURL,
	}
	path, err := h.office.BinaryPath()
	resp["libreoffice"] = err == nil
	if err == nil {
		resp["libreoffice_path"] = path
	} else {
		resp["libreoffice_path"] = nil
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ConvertHandler) Index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "pptx2pdf",
		"endpoints": []string{
			"GET /healthz",
			"POST /convert",
			"POST /convert_multipart",
			"POST /convert_and_parse",
		},
	})
}

func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	res, ok := h.convertUpload(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	w.Write(res.PDF)
}

// ConvertMultipart wraps the same PDF in a multipart/form-data body with a
// single field named "file", the shape the downstream file_parse expects.
func (h *ConvertHandler) ConvertMultipart(w http.ResponseWriter, r *http.Request) {
	res, ok := h.convertUpload(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, res.Filename))
	hdr.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(hdr)
	if err == nil {
		_, err = part.Write(res.PDF)
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to build multipart response", Error: err})
		http.Error(w, "failed to build multipart response: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mw.FormDataContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// convertUpload pulls the "file" field out of the request and runs the
// conversion. On failure it writes the error response and returns ok=false.
func (h *ConvertHandler) convertUpload(w http.ResponseWriter, r *http.Request) (office.Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "invalid multipart", Error: err})
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return office.Result{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file uploaded", http.StatusBadRequest)
		return office.Result{}, false
	}
	defer file.Close()

	if header.Filename == "" {
		http.Error(w, "no file uploaded", http.StatusBadRequest)
		return office.Result{}, false
	}

	res, err := h.office.Convert(r.Context(), header.Filename, file)
	if err != nil {
		h.writeError(w, err)
		return office.Result{}, false
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("converted %s -> %s (%d bytes)", header.Filename, res.Filename, len(res.PDF)),
		Service: "pptx2pdf",
	})
	return res, true
}

func (h *ConvertHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, office.ErrUnsupported):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, office.ErrConversion):
		h.log.Log(logger.LogEntry{Level: "error", Message: "conversion failed", Error: err})
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case errors.Is(err, parser.ErrNoURL), errors.Is(err, parser.ErrUpstream):
		h.log.Log(logger.LogEntry{Level: "error", Message: "parser call failed", Error: err})
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		h.log.Log(logger.LogEntry{Level: "error", Message: "internal error", Error: err})
		http.Error(w, "internal error: "+err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
