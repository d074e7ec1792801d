package office

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	conv    Converter
	timeout time.Duration
}

func NewService(conv Converter, timeout time.Duration) *Service {
	return &Service{conv: conv, timeout: timeout}
}

// BinaryPath reports where the converter binary lives. Used by healthz.
func (s *Service) BinaryPath() (string, error) {
	return s.conv.Resolve()
}

// Convert writes the upload into a fresh temp dir, runs the converter
// bounded by the configured timeout and returns the PDF bytes. The temp
// dir, input and output included, is removed on every path.
func (s *Service) Convert(ctx context.Context, filename string, src io.Reader) (Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".ppt" && ext != ".pptx" {
		return Result{}, fmt.Errorf("%q: %w", filename, ErrUnsupported)
	}

	tmpDir, err := os.MkdirTemp("", "pptx2pdf-*")
	if err != nil {
		return Result{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// Unique stem so concurrent conversions never collide.
	inputPath := filepath.Join(tmpDir, uuid.NewString()+ext)
	in, err := os.Create(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("save upload: %w", err)
	}
	if _, err := io.Copy(in, src); err != nil {
		in.Close()
		return Result{}, fmt.Errorf("save upload: %w", err)
	}
	in.Close()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pdfPath, err := s.conv.Convert(ctx, inputPath, tmpDir)
	if err != nil {
		return Result{}, err
	}

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return Result{}, fmt.Errorf("read converted pdf: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return Result{PDF: pdf, Filename: stem + ".pdf"}, nil
}
