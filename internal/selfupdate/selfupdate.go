// Package selfupdate tells whether a newer unminify release is published.
package selfupdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// ReleaseURL is the GitHub API endpoint for the latest release. Tests point it
// at a local server.
var ReleaseURL = "https://api.github.com/repos/DeusData/unminify/releases/latest"

// ErrNoVersion is returned when the latest release carries no usable tag.
var ErrNoVersion = errors.New("release has no version tag")

// Update describes a release newer than the running binary.
type Update struct {
	Current     string
	Latest      string
	ReleaseURL  string
	DownloadURL string // empty when no asset is built for this platform
}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
	Assets  []struct {
		Name string `json:"name"`
		URL  string `json:"browser_download_url"`
	} `json:"assets"`
}

// Check compares current with the latest published release and returns the
// release when it is newer, or nil when current is up to date. A development
// build ("dev" or any unparsable version) is older than every release.
func Check(ctx context.Context, current string) (*Update, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	rel, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	latest, ok := parseVersion(rel.TagName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoVersion, rel.TagName)
	}
	if cur, ok := parseVersion(current); ok && latest.compare(cur) <= 0 {
		return nil, nil
	}

	u := &Update{Current: current, Latest: latest.String(), ReleaseURL: rel.HTMLURL}
	for _, a := range rel.Assets {
		if platformAsset(a.Name, runtime.GOOS, runtime.GOARCH) {
			u.DownloadURL = a.URL
			break
		}
	}
	return u, nil
}

func fetch(ctx context.Context) (*release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleaseURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch release: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch release: status %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	return &rel, nil
}

// platformAsset matches archive names such as unminify-linux-amd64.tar.gz.
// Checksum and signature files never match.
func platformAsset(name, goos, goarch string) bool {
	if !strings.HasPrefix(name, "unminify") {
		return false
	}
	for _, suffix := range []string{".txt", ".sig", ".sha256"} {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	var hasOS, hasArch bool
	for _, f := range fields {
		hasOS = hasOS || f == goos
		hasArch = hasArch || f == goarch
	}
	return hasOS && hasArch
}

// version is a parsed major.minor.patch[-pre] tag.
type version struct {
	parts [3]int
	pre   string
}

func parseVersion(s string) (version, bool) {
	var v version
	base, pre, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(s), "v"), "-")
	fields := strings.Split(base, ".")
	if base == "" || len(fields) > 3 {
		return v, false
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return v, false
		}
		v.parts[i] = n
	}
	v.pre = pre
	return v, true
}

// compare orders versions; a pre-release sorts before its release.
func (v version) compare(o version) int {
	for i := range v.parts {
		if d := v.parts[i] - o.parts[i]; d != 0 {
			return d
		}
	}
	switch {
	case v.pre == o.pre:
		return 0
	case v.pre == "":
		return 1
	case o.pre == "":
		return -1
	}
	return strings.Compare(v.pre, o.pre)
}

func (v version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.parts[0], v.parts[1], v.parts[2])
	if v.pre != "" {
		s += "-" + v.pre
	}
	return s
}
