// File path: internal/pipeline/source.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nicodishanthj/flowlang/internal/diag"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported document scheme")
	ErrOversizedSource   = errors.New("document exceeds the size ceiling")
)

// Load reads a flow document from a local path or an http(s) URL and
// returns the bytes plus a short display name. maxBytes bounds the
// read and is enforced before the full document is pulled into
// memory; zero selects schema.DefaultMaxBytes. The context bounds
// only the network wait, local reads are not cancelable.
func Load(ctx context.Context, ref string, maxBytes int64) ([]byte, string, error) {
	if maxBytes <= 0 {
		maxBytes = schema.DefaultMaxBytes
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return loadURL(ctx, ref, maxBytes)
	}
	if strings.Contains(ref, "://") {
		return nil, ref, fmt.Errorf("%w: %s", ErrUnsupportedScheme, ref)
	}
	return loadFile(ref, maxBytes)
}

func loadFile(ref string, maxBytes int64) ([]byte, string, error) {
	name := filepath.Base(ref)
	info, err := os.Stat(ref)
	if err != nil {
		return nil, name, fmt.Errorf("read %s: %w", ref, err)
	}
	if info.Size() > maxBytes {
		return nil, name, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrOversizedSource, ref, info.Size(), maxBytes)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, name, fmt.Errorf("read %s: %w", ref, err)
	}
	return data, name, nil
}

func loadURL(ctx context.Context, ref string, maxBytes int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, ref, fmt.Errorf("fetch %s: %w", ref, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, ref, fmt.Errorf("fetch %s: %w", ref, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, ref, fmt.Errorf("fetch %s: unexpected status %s", ref, resp.Status)
	}
	if resp.ContentLength > maxBytes {
		return nil, ref, fmt.Errorf("%w: %s advertises %d bytes, limit %d", ErrOversizedSource, ref, resp.ContentLength, maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, ref, fmt.Errorf("fetch %s: %w", ref, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ref, fmt.Errorf("%w: %s exceeds %d bytes", ErrOversizedSource, ref, maxBytes)
	}

	name := path.Base(req.URL.Path)
	if name == "" || name == "/" || name == "." {
		name = req.URL.Host
	}
	return data, name, nil
}

// LoadIssue translates a Load failure into the diagnostic taxonomy so
// callers can report fetch problems alongside document problems.
func LoadIssue(err error) diag.Issue {
	switch {
	case errors.Is(err, ErrUnsupportedScheme):
		return diag.New(diag.KindNetwork, diag.CodeUnsupportedScheme, err.Error())
	case errors.Is(err, ErrOversizedSource):
		return diag.New(diag.KindStructure, diag.CodeOversizedDocument, err.Error())
	default:
		return diag.New(diag.KindNetwork, diag.CodeFetchFailed, err.Error())
	}
}
