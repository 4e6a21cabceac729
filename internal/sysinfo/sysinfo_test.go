package sysinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const osReleaseFixture = `NAME="Fedora Linux"
VERSION="40 (Workstation Edition)"
ID=fedora
# comment line
VERSION_ID=40
PRETTY_NAME="Fedora Linux 40 (Workstation Edition)"
VARIANT_ID=workstation
ANSI_COLOR='0;38;2;60;110;180'

NOT_A_PAIR
`

func TestParseOSRelease(t *testing.T) {
	fields, err := ParseOSRelease(strings.NewReader(osReleaseFixture))
	if err != nil {
		t.Fatalf("ParseOSRelease: %v", err)
	}

	cases := map[string]string{
		"NAME":        "Fedora Linux",
		"ID":          "fedora",
		"VERSION_ID":  "40",
		"PRETTY_NAME": "Fedora Linux 40 (Workstation Edition)",
		"ANSI_COLOR":  "0;38;2;60;110;180",
	}
	for key, want := range cases {
		if got := fields[key]; got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if _, ok := fields["NOT_A_PAIR"]; ok {
		t.Error("line without '=' should be skipped")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "os-release")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestKernel(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("reads /proc")
	}
	if Kernel() == "" {
		t.Error("Kernel() empty on linux")
	}
}

func TestTitle(t *testing.T) {
	cases := map[string]string{
		"fedora":              "Fedora",
		"workstation-edition": "Workstation Edition",
		"silverblue":          "Silverblue",
	}
	for in, want := range cases {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFetchManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":"41.20250601.0","date":"2025-06-01","url":"https://example.com/release","changes":["kernel 6.9","mesa 24.1"]}`))
	}))
	defer srv.Close()

	m, err := FetchManifest(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchManifest: %v", err)
	}
	if m == nil {
		t.Fatal("manifest is nil")
	}
	if m.Version != "41.20250601.0" || len(m.Changes) != 2 {
		t.Errorf("manifest = %+v", m)
	}
}

func TestFetchManifestNotPublished(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	m, err := FetchManifest(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchManifest: %v", err)
	}
	if m != nil {
		t.Errorf("manifest = %+v, want nil for 404", m)
	}
}

func TestFetchManifestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := FetchManifest(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for status 500")
	}
}

func TestFetchManifestEmptyURL(t *testing.T) {
	m, err := FetchManifest(context.Background(), "")
	if err != nil || m != nil {
		t.Fatalf("got (%+v, %v), want (nil, nil)", m, err)
	}
}
