package office

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// macOS app bundle locations, checked after PATH lookup.
var macCandidates = []string{
	"/Applications/LibreOffice.app/Contents/MacOS/soffice",
	"/Applications/LibreOffice.app/Contents/MacOS/soffice-bin",
}

// SofficeConverter shells out to LibreOffice in headless mode.
type SofficeConverter struct {
	binOverride string
}

func NewSofficeConverter(binOverride string) *SofficeConverter {
	return &SofficeConverter{binOverride: binOverride}
}

// Resolve locates the LibreOffice executable. An explicit override must
// point at an existing file; otherwise PATH is searched for libreoffice
// and soffice, then the macOS bundle paths are tried.
func (c *SofficeConverter) Resolve() (string, error) {
	if c.binOverride != "" {
		if _, err := os.Stat(c.binOverride); err != nil {
			return "", fmt.Errorf("LIBREOFFICE_BIN %s: %v: %w", c.binOverride, err, ErrConversion)
		}
		return c.binOverride, nil
	}

	for _, name := range []string{"libreoffice", "soffice"} {
		if found, err := exec.LookPath(name); err == nil {
			return found, nil
		}
	}

	for _, p := range macCandidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("libreoffice executable not found, install LibreOffice or set LIBREOFFICE_BIN: %w", ErrConversion)
}

func (c *SofficeConverter) Convert(ctx context.Context, inputPath, outDir string) (string, error) {
	bin, err := c.Resolve()
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, bin,
		"--headless",
		"--nologo",
		"--nofirststartwizard",
		"--nolockcheck",
		"--norestore",
		"--convert-to", "pdf",
		"--outdir", outDir,
		inputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("soffice timed out: %w", ErrConversion)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("soffice: %s: %w", msg, ErrConversion)
	}

	// LibreOffice writes <stem>.pdf into outDir.
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	pdfPath := filepath.Join(outDir, stem+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("expected PDF not found: %s: %w", pdfPath, ErrConversion)
	}

	return pdfPath, nil
}
