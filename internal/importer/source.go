package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
)

// Format is a supported import file format.
type Format string

// Format constants.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatOFX  Format = "ofx"
)

// DetectFormat picks the parser from a file name.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv", ".txt", ".tsv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".ofx", ".qfx":
		return FormatOFX, nil
	default:
		return "", fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, name)
	}
}

// Parse reads r in the given format.
func Parse(format Format, r io.Reader) ([]model.Transaction, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(r)
	case FormatXLSX:
		return ParseXLSX(r)
	case FormatOFX:
		return ParseOFX(r)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, format)
	}
}

// Fetcher downloads remote sources.
type Fetcher func(ctx context.Context, uri string) ([]byte, error)

// Loader reads transactions from local paths or gs:// URIs.
type Loader struct {
	fetch Fetcher
}

// NewLoader creates a loader. A nil fetcher uses FetchGCS.
func NewLoader(fetch Fetcher) *Loader {
	if fetch == nil {
		fetch = FetchGCS
	}
	return &Loader{fetch: fetch}
}

// Load reads and parses one source.
func (l *Loader) Load(ctx context.Context, source string) ([]model.Transaction, error) {
	format, err := DetectFormat(source)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(source, "gs://") {
		data, err := l.fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		return Parse(format, bytes.NewReader(data))
	}

	f, err := os.Open(filepath.Clean(source))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer func() { _ = f.Close() }()

	return Parse(format, f)
}
