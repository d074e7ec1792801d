package office

import (
	"context"
	"errors"
)

// Result is the outcome of one conversion, valid for the current request only.
type Result struct {
	PDF      []byte
	Filename string
}

var (
	ErrUnsupported = errors.New("only .ppt or .pptx files are supported")
	ErrConversion  = errors.New("conversion failed")
)

type Converter interface {
	// Resolve returns the path of the converter binary, or an error when
	// no usable binary is available.
	Resolve() (string, error)

	// Convert turns the presentation at inputPath into a PDF inside outDir
	// and returns the path of the produced file.
	Convert(ctx context.Context, inputPath, outDir string) (string, error)
}
