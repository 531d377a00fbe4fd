// Package loader turns a persisted network description into a validated
// *network.Network.
//
// Supported layouts, chosen by file extension:
//
//	.xml          <Network><Programmer name="..."> with <Recommendations> and <Skills>
//	.yaml, .yml   programmers: [{name, skills, recommendations}]
//	.json         {"programmers": [{"name", "skills", "recommendations"}]}
//	.hcl          programmer "Name" { skills = [...] recommendations = [...] }
//
// Every failure is either a *FileNotFoundError or an *InvalidFormatError
// carrying the source path verbatim.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/efebarandurmaz/pronet/internal/network"
	"github.com/efebarandurmaz/pronet/internal/observability"
)

// Format identifies an on-disk layout.
type Format string

const (
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// ErrUnsupportedFormat is wrapped in an *InvalidFormatError for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported network file format")

// DetectFormat maps a path's extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatXML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadNetwork reads and validates the network stored at source.
func LoadNetwork(ctx context.Context, source string) (*network.Network, error) {
	format, ferr := DetectFormat(source)

	ctx, span := observability.StartLoadSpan(ctx, source, string(format))
	defer span.End()

	n, err := load(source, format, ferr)
	if err != nil {
		observability.RecordError(span, err)
		slog.DebugContext(ctx, "network load failed", "source", source, "cause", errors.Unwrap(err))
		return nil, err
	}

	observability.RecordLoadResult(span, n.Len(), n.EdgeCount())
	slog.DebugContext(ctx, "network loaded",
		"source", source,
		"format", format,
		"programmers", n.Len(),
		"recommendations", n.EdgeCount(),
	)
	return n, nil
}

func load(source string, format Format, formatErr error) (*network.Network, error) {
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: source}
		}
		return nil, invalid(source, err)
	}
	if info.IsDir() {
		return nil, invalid(source, fmt.Errorf("%s is a directory", source))
	}
	if formatErr != nil {
		return nil, invalid(source, formatErr)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, invalid(source, err)
	}
	return Decode(format, bytes.NewReader(data), source)
}

// Decode parses r as format. source names the input in errors and, for HCL,
// in diagnostics.
func Decode(format Format, r io.Reader, source string) (*network.Network, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, invalid(source, err)
	}

	var specs []network.ProgrammerSpec
	switch format {
	case FormatXML:
		specs, err = decodeXML(data)
	case FormatYAML:
		specs, err = decodeYAML(data)
	case FormatJSON:
		specs, err = decodeJSON(data)
	case FormatHCL:
		specs, err = decodeHCL(data, source)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, invalid(source, err)
	}

	n, err := network.New(specs)
	if err != nil {
		return nil, invalid(source, err)
	}
	return n, nil
}
