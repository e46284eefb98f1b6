package taxonomy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrLoad marks every failure to obtain a usable taxonomy. Callers treat
// it as fatal to initialization.
var ErrLoad = errors.New("failed to load zhuyin data")

// DefaultFile is the data file name looked up when none is configured
const DefaultFile = "zhuyin_data.json"

// httpClient is used for http(s) sources
var httpClient = &http.Client{Timeout: 30 * time.Second}

// Load reads the data file from a local path or an http(s) URL
func Load(ctx context.Context, source string) (*Taxonomy, error) {
	if source == "" {
		source = DefaultFile
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetch(ctx, source)
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer file.Close()

	return Parse(file)
}

// fetch downloads the data file, rejecting any non-2xx status
func fetch(ctx context.Context, url string) (*Taxonomy, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP error! status: %d", ErrLoad, resp.StatusCode)
	}

	return Parse(resp.Body)
}

// Parse decodes a data document. Absent categories decode as empty lists;
// a document without the zhuyin_system key is rejected.
func Parse(r io.Reader) (*Taxonomy, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %w", ErrLoad, err)
	}

	if doc.System == nil {
		return nil, fmt.Errorf("%w: missing zhuyin_system key", ErrLoad)
	}

	return doc.System, nil
}
