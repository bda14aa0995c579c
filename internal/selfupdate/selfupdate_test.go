package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
)

func TestParseAndCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int // sign only
	}{
		{"0.2.1", "0.2.0", 1},
		{"0.2.0", "v0.2.0", 0},
		{"0.10.0", "0.2.0", 1},
		{"1.0", "1.0.0", 0},
		{"0.2.1-dev", "0.2.1", -1},
		{"0.2.1-beta", "0.2.1-alpha", 1},
		{"0.3.0", "0.2.1-dev", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			a, okA := parseVersion(tt.a)
			b, okB := parseVersion(tt.b)
			if !okA || !okB {
				t.Fatalf("parse failed: %v %v", okA, okB)
			}
			got := a.compare(b)
			if (got > 0) != (tt.want > 0) || (got < 0) != (tt.want < 0) {
				t.Errorf("compare(%s, %s) = %d, want sign of %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
	for _, bad := range []string{"", "dev", "1.x", "1.2.3.4", "v"} {
		if _, ok := parseVersion(bad); ok {
			t.Errorf("parseVersion(%q) should fail", bad)
		}
	}
	if v, _ := parseVersion("v1.2-rc1"); v.String() != "1.2.0-rc1" {
		t.Errorf("String = %q", v.String())
	}
}

func TestPlatformAsset(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"unminify-linux-amd64.tar.gz", true},
		{"unminify_Linux_amd64.zip", true},
		{"unminify-darwin-arm64.tar.gz", false},
		{"unminify-linux-arm64.tar.gz", false},
		{"unminify-linux-amd64.tar.gz.sha256", false},
		{"checksums.txt", false},
		{"other-linux-amd64.tar.gz", false},
	}
	for _, tt := range tests {
		if got := platformAsset(tt.name, "linux", "amd64"); got != tt.want {
			t.Errorf("platformAsset(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func serveRelease(t *testing.T, status int, body string) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	old := ReleaseURL
	ReleaseURL = ts.URL
	t.Cleanup(func() { ReleaseURL = old })
}

func TestCheckNewerAvailable(t *testing.T) {
	asset := fmt.Sprintf("unminify-%s-%s.tar.gz", runtime.GOOS, runtime.GOARCH)
	serveRelease(t, http.StatusOK, fmt.Sprintf(`{
		"tag_name": "v1.2.0",
		"html_url": "https://github.com/DeusData/unminify/releases/tag/v1.2.0",
		"assets": [
			{"name": "checksums.txt", "browser_download_url": "https://github.com/dl/sums"},
			{"name": %q, "browser_download_url": "https://github.com/dl/bin"}
		]
	}`, asset))

	for _, current := range []string{"1.1.9", "1.2.0-dev", "dev"} {
		u, err := Check(context.Background(), current)
		if err != nil {
			t.Fatalf("Check(%q): %v", current, err)
		}
		if u == nil || u.Latest != "1.2.0" || u.Current != current || u.DownloadURL != "https://github.com/dl/bin" || u.ReleaseURL == "" {
			t.Errorf("Check(%q) = %+v", current, u)
		}
	}
}

func TestCheckUpToDate(t *testing.T) {
	serveRelease(t, http.StatusOK, `{"tag_name": "v1.2.0"}`)
	for _, current := range []string{"1.2.0", "v1.3.0"} {
		u, err := Check(context.Background(), current)
		if err != nil || u != nil {
			t.Errorf("Check(%q) = %+v, %v; want nil, nil", current, u, err)
		}
	}
}

func TestCheckErrors(t *testing.T) {
	serveRelease(t, http.StatusInternalServerError, "")
	if _, err := Check(context.Background(), "1.0.0"); err == nil {
		t.Error("expected error for 500 response")
	}

	serveRelease(t, http.StatusOK, `{"assets": []}`)
	if _, err := Check(context.Background(), "1.0.0"); !errors.Is(err, ErrNoVersion) {
		t.Errorf("err = %v, want ErrNoVersion", err)
	}

	serveRelease(t, http.StatusOK, `not json`)
	if _, err := Check(context.Background(), "1.0.0"); err == nil {
		t.Error("expected error for invalid json")
	}
}
