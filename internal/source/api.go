package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/ralt/pkgcompare/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the public ALT Linux package database API
	DefaultBaseURL = "https://rdb.altlinux.org/api"
	// DefaultTimeout bounds a single branch export request
	DefaultTimeout = 2 * time.Minute

	exportPath = "export/branch_binary_packages"
)

// DefaultKnownBranches lists the branches the API is expected to serve
var DefaultKnownBranches = []string{"p9", "p10", "p11", "sisyphus"}

// APIClient fetches branch exports from the package database API
type APIClient struct {
	baseURL       string
	httpClient    *http.Client
	knownBranches []string
}

// NewAPIClient creates a client for baseURL. A zero timeout selects DefaultTimeout.
func NewAPIClient(baseURL string, timeout time.Duration, knownBranches []string) *APIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if knownBranches == nil {
		knownBranches = DefaultKnownBranches
	}
	return &APIClient{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		knownBranches: knownBranches,
	}
}

// BranchURL returns the export URL of branch, filtered to arch when set
func (c *APIClient) BranchURL(branch, arch string) string {
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, exportPath, url.PathEscape(branch))
	if arch != "" {
		u += "?" + url.Values{"arch": []string{arch}}.Encode()
	}
	return u
}

// Fetch downloads and validates the package export of branch.
func (c *APIClient) Fetch(ctx context.Context, branch, arch string) (*models.BranchPackages, error) {
	if !slices.Contains(c.knownBranches, branch) {
		logrus.Warnf("Branch %q is not one of the known branches (%s); requesting it anyway",
			branch, strings.Join(c.knownBranches, ", "))
	}

	target := c.BranchURL(branch, arch)
	logrus.Infof("Fetching %s packages from %s", branch, target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, models.NewError(models.ErrFetch, branch, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewError(models.ErrFetch, branch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewError(models.ErrFetch, branch,
			fmt.Errorf("GET %s: http response failed with code: %d", target, resp.StatusCode))
	}

	body, err := decodedBody(resp)
	if err != nil {
		return nil, models.NewError(models.ErrFetch, branch, err)
	}
	defer body.Close()

	var raw models.RawBranch
	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, models.NewError(models.ErrFetch, branch, fmt.Errorf("decoding response: %w", err))
	}

	pkgs, err := models.NewBranchPackages(branch, raw)
	if err != nil {
		return nil, err
	}
	if pkgs.Length != pkgs.Count() {
		logrus.Warnf("Branch %s reported length %d but carried %d packages", branch, pkgs.Length, pkgs.Count())
	}

	logrus.Infof("Fetched %d %s packages in %s", pkgs.Count(), branch, time.Since(start).Round(time.Millisecond))
	return pkgs, nil
}

// decodedBody unwraps a gzip encoded response. The transport only does this
// by itself when it added the Accept-Encoding header.
func decodedBody(resp *http.Response) (io.ReadCloser, error) {
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return io.NopCloser(resp.Body), nil
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decompressing response: %w", err)
	}
	return zr, nil
}
