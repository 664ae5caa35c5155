package adapters

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gopkg.in/yaml.v3"

	"github.com/apm-run/apm/internal/ports"
	"github.com/apm-run/apm/internal/shared"
	"github.com/apm-run/apm/internal/types"
)

const (
	// PackageTokenEnvVar is the dedicated environment variable checked
	// first for private-dependency access (spec.md §6).
	PackageTokenEnvVar = "APM_PACKAGE_TOKEN"
	// GeneralTokenEnvVar is the fallback hosting token.
	GeneralTokenEnvVar = "GITHUB_TOKEN"

	defaultFetchTimeout   = 60 * time.Second
	defaultConnectTimeout = 10 * time.Second
	maxFetchRetries       = 3
	retryBaseInterval     = 500 * time.Millisecond
)

// HostingGitHubAdapter talks to the GitHub-shaped hosting API through
// exactly the two endpoints spec.md §6 allows: ref resolution via the
// commits endpoint, and full archive download via the tarball
// endpoint. There is no third, provider-specific "fetch one file"
// endpoint here — FetchManifest is implemented in terms of the same
// tarball download DownloadArchive uses, per §4.6 step 2's
// metadata-only-where-supported / full-fetch-otherwise fallback: this
// provider never supports metadata-only, so it always falls back.
type HostingGitHubAdapter struct {
	APIBaseURL string
	Client     *http.Client
}

func NewHostingGitHubAdapter() HostingGitHubAdapter {
	return HostingGitHubAdapter{
		APIBaseURL: "https://api.github.com",
		Client: &http.Client{
			Timeout: defaultFetchTimeout,
		},
	}
}

func (a HostingGitHubAdapter) ResolveRef(ctx context.Context, owner, repo, ref string) (ports.RefMetadata, error) {
	target := ref
	if target == "" {
		target = "HEAD"
	}
	url := fmt.Sprintf("%s/repos/%s/%s/commits/%s", a.APIBaseURL, owner, repo, target)

	var payload struct {
		SHA string `json:"sha"`
	}
	if err := a.getJSON(ctx, url, &payload); err != nil {
		return ports.RefMetadata{}, err
	}
	if payload.SHA == "" {
		return ports.RefMetadata{}, shared.ErrRefNotFound(fmt.Sprintf("could not resolve ref %q for %s/%s", ref, owner, repo))
	}
	return ports.RefMetadata{Owner: owner, Repo: repo, ResolvedCommit: payload.SHA}, nil
}

// FetchManifest downloads the same tarball DownloadArchive would and
// reads apm.yml out of it without writing anything to disk, discarding
// the rest of the archive once the manifest entry is found. This is
// the "fall back to full fetch" branch of §4.6 step 2: the two-endpoint
// provider contract has no metadata-only manifest endpoint to prefer.
func (a HostingGitHubAdapter) FetchManifest(ctx context.Context, owner, repo, commit string) (types.Manifest, error) {
	archive, err := a.DownloadArchive(ctx, owner, repo, commit)
	if err != nil {
		return types.Manifest{}, err
	}
	defer archive.Close()

	body, err := readManifestFromTarGz(archive)
	if err != nil {
		return types.Manifest{}, err
	}
	if body == nil {
		return types.Manifest{}, shared.ErrMissingManifest(fmt.Sprintf("no apm.yml found in archive for %s/%s@%s", owner, repo, commit), nil)
	}

	var raw rawManifest
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return types.Manifest{}, shared.ErrMalformedManifest(fmt.Sprintf("apm.yml for %s/%s@%s", owner, repo, commit), err)
	}
	if raw.Name == "" {
		return types.Manifest{}, shared.ErrMalformedManifest(fmt.Sprintf("apm.yml for %s/%s@%s has an empty name", owner, repo, commit), nil)
	}
	return types.Manifest{
		Name:        raw.Name,
		Version:     raw.Version,
		Description: raw.Description,
		Author:      raw.Author,
		Scripts:     raw.Scripts,
		Dependencies: types.ManifestDependencies{
			APM: raw.Dependencies.APM,
			MCP: raw.Dependencies.MCP,
		},
		Compilation: mergeCompilation(raw.Compilation),
		Extras:      raw.Extras,
	}, nil
}

// readManifestFromTarGz walks a gzipped tarball looking for the
// root-level apm.yml (one path segment below the provider's top-level
// wrapper directory, same convention TarGzExtractorAdapter strips).
// Returns nil, nil if the archive contains no such entry.
func readManifestFromTarGz(archive io.Reader) ([]byte, error) {
	gz, err := gzip.NewReader(archive)
	if err != nil {
		return nil, shared.ErrArchiveCorrupt("failed to open gzip stream", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, shared.ErrArchiveCorrupt("failed to read tar entry", err)
		}
		relPath := stripTopLevel(header.Name)
		if relPath != "apm.yml" || header.Typeflag != tar.TypeReg {
			continue
		}
		body, err := io.ReadAll(tr)
		if err != nil {
			return nil, shared.ErrArchiveCorrupt("failed to read apm.yml from archive", err)
		}
		return body, nil
	}
	return nil, nil
}

func (a HostingGitHubAdapter) DownloadArchive(ctx context.Context, owner, repo, commit string) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/tarball/%s", a.APIBaseURL, owner, repo, commit)
	resp, err := a.doWithAuthRetry(ctx, url)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (a HostingGitHubAdapter) getJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := a.doWithAuthRetry(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return shared.ErrNetworkError("failed to decode response from "+url, err)
	}
	return nil
}

// doWithAuthRetry issues an unauthenticated GET first; on 401/404 it
// retries once with a bearer token (package token, then general
// token). The whole exchange is retried up to maxFetchRetries times
// with exponential backoff for transient network failures, per
// spec.md §4.4 and §7.
func (a HostingGitHubAdapter) doWithAuthRetry(ctx context.Context, url string) (*http.Response, error) {
	var resp *http.Response

	operation := func() error {
		var err error
		resp, err = a.get(ctx, url, "")
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			token := firstNonEmptyEnv(PackageTokenEnvVar, GeneralTokenEnvVar)
			if token == "" {
				return backoff.Permanent(shared.ErrAuthRequired(
					fmt.Sprintf("access to %s requires authentication; set %s or %s", url, PackageTokenEnvVar, GeneralTokenEnvVar)))
			}
			resp, err = a.get(ctx, url, token)
			if err != nil {
				return err
			}
		}
		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return backoff.Permanent(shared.ErrRefNotFound("not found: " + url))
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			resp.Body.Close()
			return backoff.Permanent(shared.ErrAuthRequired("authentication rejected for " + url))
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return shared.ErrNetworkError(fmt.Sprintf("server error %d from %s", resp.StatusCode, url), nil)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return backoff.Permanent(shared.ErrNetworkError(fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, url), nil))
		}
		return nil
	}

	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = retryBaseInterval
	policy := backoff.WithMaxRetries(exponential, maxFetchRetries)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

func (a HostingGitHubAdapter) get(ctx context.Context, url string, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, shared.ErrNetworkError("failed to build request for "+url, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, shared.ErrNetworkError("request failed: "+url, err)
	}
	return resp, nil
}

func firstNonEmptyEnv(names ...string) string {
	for _, name := range names {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}

var _ ports.HostingPort = HostingGitHubAdapter{}
