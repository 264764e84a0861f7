package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetFor(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		goarch  string
		want    string
		binary  string
		wantErr bool
	}{
		{"darwin amd64", "darwin", "amd64", "musiclab_Darwin_all.tar.gz", "musiclab", false},
		{"darwin arm64", "darwin", "arm64", "musiclab_Darwin_all.tar.gz", "musiclab", false},
		{"linux amd64", "linux", "amd64", "musiclab_Linux_x86_64.tar.gz", "musiclab", false},
		{"linux arm64", "linux", "arm64", "musiclab_Linux_arm64.tar.gz", "musiclab", false},
		{"linux 386", "linux", "386", "musiclab_Linux_i386.tar.gz", "musiclab", false},
		{"windows amd64", "windows", "amd64", "musiclab_Windows_x86_64.zip", "musiclab.exe", false},
		{"unsupported os", "freebsd", "amd64", "", "", true},
		{"unsupported arch", "linux", "mips", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assetFor(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
			assert.Equal(t, tt.binary, got.Binary)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	input := "abc123  musiclab_Darwin_all.tar.gz\nbadline\n  \nfoo  bar  baz\ndef456  musiclab_Linux_x86_64.tar.gz\n"
	assert.Equal(t, map[string]string{
		"musiclab_Darwin_all.tar.gz":   "abc123",
		"musiclab_Linux_x86_64.tar.gz": "def456",
	}, parseChecksums(strings.NewReader(input)))
	assert.Empty(t, parseChecksums(strings.NewReader("")))
}

func TestExtract(t *testing.T) {
	content := []byte("#!/bin/sh\necho musiclab")
	dir := t.TempDir()

	t.Run("tar.gz", func(t *testing.T) {
		src := filepath.Join(dir, "a.tar.gz")
		require.NoError(t, os.WriteFile(src, buildTarGz(t, "musiclab", content), 0o600))
		dst := filepath.Join(dir, "out-tar")
		require.NoError(t, extract(src, asset{Format: formatTarGz, Binary: "musiclab"}, dst))
		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("zip", func(t *testing.T) {
		src := filepath.Join(dir, "a.zip")
		require.NoError(t, os.WriteFile(src, buildZip(t, "musiclab.exe", content), 0o600))
		dst := filepath.Join(dir, "out-zip")
		require.NoError(t, extract(src, asset{Format: formatZip, Binary: "musiclab.exe"}, dst))
		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("missing binary", func(t *testing.T) {
		src := filepath.Join(dir, "b.tar.gz")
		require.NoError(t, os.WriteFile(src, buildTarGz(t, "other-file", content), 0o600))
		err := extract(src, asset{Format: formatTarGz, Binary: "musiclab"}, filepath.Join(dir, "out-missing"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestInstallKeepsMode(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "musiclab")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))
	staged := filepath.Join(dir, "musiclab-new")
	require.NoError(t, os.WriteFile(staged, []byte("new"), 0o600))

	require.NoError(t, install(staged, target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.NoFileExists(t, staged)
}

func TestUpdate(t *testing.T) {
	a, err := assetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("no release asset for this platform: %v", err)
	}
	binaryContent := []byte("new-musiclab-binary")
	archive := buildArchive(t, a, binaryContent)
	archiveHash := sha256.Sum256(archive)
	archiveHex := hex.EncodeToString(archiveHash[:])

	t.Run("happy path", func(t *testing.T) {
		dir := t.TempDir()
		execPath := filepath.Join(dir, "musiclab")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))

		checksums := fmt.Sprintf("%s  %s\n", archiveHex, a.Name)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/repos/abhisek/musiclab/releases/latest":
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
			case r.URL.Path == fmt.Sprintf("/abhisek/musiclab/releases/download/v2.0.0/%s", a.Name):
				_, _ = w.Write(archive)
			case r.URL.Path == "/abhisek/musiclab/releases/download/v2.0.0/checksums.txt":
				_, _ = w.Write([]byte(checksums))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
		)

		var stages []string
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		// Verify binary was replaced.
		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, binaryContent, got)

		// Verify all stages were reported.
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)
	})

	t.Run("dev build", func(t *testing.T) {
		checker := NewChecker()
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"tag_name":"v1.0.0","html_url":"https://example.com/v1.0.0"}`))
		}))
		defer server.Close()

		checker := NewChecker(WithBaseURL(server.URL))
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		checksums := fmt.Sprintf("%s  %s\n", strings.Repeat("0", 64), a.Name)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/repos/abhisek/musiclab/releases/latest":
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
			case r.URL.Path == fmt.Sprintf("/abhisek/musiclab/releases/download/v2.0.0/%s", a.Name):
				_, _ = w.Write(archive)
			case r.URL.Path == "/abhisek/musiclab/releases/download/v2.0.0/checksums.txt":
				_, _ = w.Write([]byte(checksums))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(tempExec(t)),
		)
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("download failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/repos/abhisek/musiclab/releases/latest":
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(tempExec(t)),
		)
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

// buildArchive packs content the way the release for a is packed.
func buildArchive(t *testing.T, a asset, content []byte) []byte {
	t.Helper()
	if a.Format == formatZip {
		return buildZip(t, a.Binary, content)
	}
	return buildTarGz(t, a.Binary, content)
}

func tempExec(t *testing.T) func() (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "musiclab")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o755))
	return func() (string, error) { return path, nil }
}

func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// buildTarGz creates a tar.gz archive containing a single file.
func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name,
		Size: int64(len(content)),
		Mode: 0755,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		current string
		tag     string
		want    bool
		wantErr bool
	}{
		{"newer release", "v1.2.0", "v1.10.0", true, false},
		{"same version", "v1.2.0", "v1.2.0", false, false},
		{"older release", "v2.0.0", "v1.9.9", false, false},
		{"tag without v", "1.0.0", "1.0.1", true, false},
		{"dev build", "(devel)", "v1.0.0", false, false},
		{"bad tag", "v1.0.0", "nightly", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/abhisek/musiclab/releases/latest", r.URL.Path)
				_, _ = fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/r"}`, tt.tag)
			}))
			defer server.Close()

			res, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: tt.current})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.UpdateAvailable)
			assert.Equal(t, tt.tag, res.LatestVersion)
			assert.Equal(t, "https://example.com/r", res.ReleaseURL)
		})
	}
}

func TestCheckHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}
