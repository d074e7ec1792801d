package office

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// convertScript mimics soffice: it writes <stem>.pdf into the --outdir,
// prefixed with the PDF signature and carrying the input bytes.
const convertScript = `#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--outdir" ]; then out="$a"; fi
  prev="$a"
  in="$a"
done
base=$(basename "$in")
stem="${base%.*}"
{ echo '%PDF-1.4'; cat "$in"; } > "$out/$stem.pdf"
`

const sleepScript = `#!/bin/sh
sleep 5
`

const silentScript = `#!/bin/sh
exit 0
`

func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub converter needs sh")
	}
	bin := filepath.Join(t.TempDir(), "soffice")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin
}

type fakeConverter struct {
	calls int32
}

func (f *fakeConverter) Resolve() (string, error) { return "/opt/soffice", nil }

func (f *fakeConverter) Convert(_ context.Context, inputPath, outDir string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	p := filepath.Join(outDir, stem+".pdf")
	if err := os.WriteFile(p, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		return "", err
	}
	return p, nil
}

func TestServiceConvert_ProducesPDF(t *testing.T) {
	bin := writeStub(t, convertScript)
	svc := NewService(NewSofficeConverter(bin), 10*time.Second)

	res, err := svc.Convert(context.Background(), "Quarterly Deck.pptx", strings.NewReader("slide bytes"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(res.PDF, []byte("%PDF")))
	assert.True(t, bytes.Contains(res.PDF, []byte("slide bytes")))
	assert.Equal(t, "Quarterly Deck.pdf", res.Filename)
}

func TestServiceConvert_RejectsUnsupportedExtension(t *testing.T) {
	fake := &fakeConverter{}
	svc := NewService(fake, time.Second)

	_, err := svc.Convert(context.Background(), "notes.txt", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrUnsupported)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fake.calls))
}

func TestServiceConvert_MissingBinaryLeavesNoTempFiles(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	svc := NewService(NewSofficeConverter(filepath.Join(tmp, "does-not-exist")), time.Second)
	_, err := svc.Convert(context.Background(), "deck.pptx", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrConversion)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestServiceConvert_Timeout(t *testing.T) {
	bin := writeStub(t, sleepScript)
	svc := NewService(NewSofficeConverter(bin), 100*time.Millisecond)

	_, err := svc.Convert(context.Background(), "deck.pptx", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrConversion)
	assert.Contains(t, err.Error(), "timed out")
}

func TestServiceConvert_MissingOutput(t *testing.T) {
	bin := writeStub(t, silentScript)
	svc := NewService(NewSofficeConverter(bin), time.Second)

	_, err := svc.Convert(context.Background(), "deck.ppt", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrConversion)
	assert.Contains(t, err.Error(), "expected PDF not found")
}

func TestSofficeResolve_OverrideMustExist(t *testing.T) {
	conv := NewSofficeConverter(filepath.Join(t.TempDir(), "nope"))
	_, err := conv.Resolve()
	require.ErrorIs(t, err, ErrConversion)
}

func TestSofficeResolve_Override(t *testing.T) {
	bin := writeStub(t, convertScript)
	conv := NewSofficeConverter(bin)

	got, err := conv.Resolve()
	require.NoError(t, err)
	assert.Equal(t, bin, got)
}
