package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// UpdateInput selects the version to install. An empty TargetVersion
// means the latest release.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress reports one stage of an update.
type UpdateProgress struct {
	Stage   string
	Message string
}

type archiveFormat int

const (
	formatTarGz archiveFormat = iota
	formatZip
)

// asset is the release file built for one platform.
type asset struct {
	Name   string
	Format archiveFormat
	Binary string // file name inside the archive
}

var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

func assetFor(goos, goarch string) (asset, error) {
	if goos == "darwin" {
		// One universal archive covers both architectures.
		return asset{Name: binaryName + "_Darwin_all.tar.gz", Format: formatTarGz, Binary: binaryName}, nil
	}
	arch, ok := releaseArch[goarch]
	if !ok {
		return asset{}, fmt.Errorf("unsupported architecture: %s", goarch)
	}
	switch goos {
	case "linux":
		return asset{Name: fmt.Sprintf("%s_Linux_%s.tar.gz", binaryName, arch), Format: formatTarGz, Binary: binaryName}, nil
	case "windows":
		return asset{Name: fmt.Sprintf("%s_Windows_%s.zip", binaryName, arch), Format: formatZip, Binary: binaryName + ".exe"}, nil
	}
	return asset{}, fmt.Errorf("unsupported operating system: %s", goos)
}

// Update downloads, verifies and installs a release over the running
// binary. The archive is staged next to the binary so the final rename
// stays on one filesystem.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}

	tag := input.TargetVersion
	if tag == "" {
		progress(UpdateProgress{Stage: "check", Message: "Checking for latest version..."})
		res, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !res.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}

	a, err := assetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}

	staging, err := os.MkdirTemp(filepath.Dir(target), "."+binaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	releaseURL := fmt.Sprintf("%s/%s/%s/releases/download/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag)

	progress(UpdateProgress{Stage: "download", Message: fmt.Sprintf("Downloading %s...", tag)})
	archivePath := filepath.Join(staging, a.Name)
	sum, err := c.download(ctx, releaseURL+"/"+a.Name, archivePath)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	progress(UpdateProgress{Stage: "verify", Message: "Verifying checksum..."})
	var sums bytes.Buffer
	if err := c.fetch(ctx, releaseURL+"/checksums.txt", &sums); err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(&sums)[a.Name]
	if !ok {
		return fmt.Errorf("no checksum for %s in checksums.txt", a.Name)
	}
	if sum != want {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, want, sum)
	}

	progress(UpdateProgress{Stage: "extract", Message: "Extracting binary..."})
	staged := filepath.Join(staging, binaryName+"-new")
	if err := extract(archivePath, a, staged); err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(UpdateProgress{Stage: "apply", Message: "Applying update..."})
	if err := install(staged, target); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	progress(UpdateProgress{Stage: "done", Message: fmt.Sprintf("Updated to %s", tag)})
	return nil
}

func (c *Checker) fetch(ctx context.Context, url string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// download streams url into path and returns the hex SHA-256 of the body.
func (c *Checker) download(ctx context.Context, url, path string) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	if err := c.fetch(ctx, url, io.MultiWriter(f, h)); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// parseChecksums reads "<sha256>  <file>" lines. Anything else is skipped.
func parseChecksums(r io.Reader) map[string]string {
	sums := make(map[string]string)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 {
			sums[fields[1]] = fields[0]
		}
	}
	return sums
}

// extract copies the release binary out of the archive at src into dst.
func extract(src string, a asset, dst string) error {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	switch a.Format {
	case formatZip:
		err = copyFromZip(src, a.Binary, out)
	default:
		err = copyFromTarGz(src, a.Binary, out)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func copyFromTarGz(src, name string, w io.Writer) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("binary %q not found in archive", name)
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			_, err := io.Copy(w, tr)
			return err
		}
	}
}

func copyFromZip(src, name string, w io.Writer) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer func() { _ = rc.Close() }()
		_, err = io.Copy(w, rc)
		return err
	}
	return fmt.Errorf("binary %q not found in archive", name)
}

// install moves staged over target, keeping target's permission bits.
func install(staged, target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}
	if err := os.Chmod(staged, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(staged, target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
