// Package update performs a best-effort release check against GitHub.
// Failures are silent; an audit never degrades because the network did.
package update

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// checkTimeout bounds the whole release lookup. The check runs after the
// report is printed, so one second is already generous.
const checkTimeout = 1 * time.Second

// Result holds the outcome of a version check.
type Result struct {
	Latest    string // e.g. "v0.3.0"
	Current   string
	UpdateURL string
}

// NeedsUpdate returns true if Latest differs from Current and Current is not "dev".
func (r *Result) NeedsUpdate() bool {
	return r.Latest != r.Current && r.Current != "dev"
}

// defaultBaseURL is the GitHub API base URL, overridable for testing.
var defaultBaseURL = "https://api.github.com"

// CheckLatest queries the GitHub Releases API for the latest release of
// repo (e.g. "yiranlandtour/solana-move"). Returns nil on timeout, network
// failure, or non-release builds. Never returns an error to the caller.
func CheckLatest(currentVersion, repo string) *Result {
	if currentVersion == "dev" {
		return nil
	}
	return checkLatestWithBase(defaultBaseURL, currentVersion, repo)
}

func checkLatestWithBase(baseURL, currentVersion, repo string) *Result {
	tag, ok := fetchLatestTag(baseURL, repo)
	if !ok {
		return nil
	}
	return &Result{
		Latest:    tag,
		Current:   currentVersion,
		UpdateURL: fmt.Sprintf("go install github.com/%s/cmd/ccaudit@latest", repo),
	}
}

// fetchLatestTag returns the tag_name of the latest release, or ok=false on
// any failure. All failure modes collapse to "no result".
func fetchLatestTag(baseURL, repo string) (string, bool) {
	client := &http.Client{Timeout: checkTimeout}
	resp, err := client.Get(fmt.Sprintf("%s/repos/%s/releases/latest", baseURL, repo))
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var payload struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", false
	}
	if payload.TagName == "" {
		return "", false
	}
	return payload.TagName, true
}
