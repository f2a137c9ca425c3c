package github

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/ulikunitz/xz"
)

// Kind is how a downloaded asset is unpacked
type Kind string

const (
	KindTarGz Kind = "tar.gz"
	KindTarXz Kind = "tar.xz"
	KindTar   Kind = "tar"
	KindZip   Kind = "zip"
	KindGzip  Kind = "gz"
	KindRaw   Kind = "raw"
)

// KindOf picks the unpacking strategy from the asset name
func KindOf(name string) Kind {
	n := strings.ToLower(name)
	switch {
	case strings.HasSuffix(n, ".tar.gz"), strings.HasSuffix(n, ".tgz"):
		return KindTarGz
	case strings.HasSuffix(n, ".tar.xz"), strings.HasSuffix(n, ".txz"):
		return KindTarXz
	case strings.HasSuffix(n, ".tar"):
		return KindTar
	case strings.HasSuffix(n, ".zip"):
		return KindZip
	case strings.HasSuffix(n, ".gz"):
		return KindGzip
	}
	return KindRaw
}

// Extract unpacks archive into dir. Raw assets are copied as-is and single
// gzip files are decompressed under their name without ".gz".
func Extract(archive, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}

	var err error
	switch kind := KindOf(archive); kind {
	case KindTarGz, KindTarXz, KindTar:
		err = extractTarFile(archive, dir, kind)
	case KindZip:
		err = extractZip(archive, dir)
	case KindGzip:
		err = gunzipFile(archive, filepath.Join(dir, strings.TrimSuffix(filepath.Base(archive), filepath.Ext(archive))))
	default:
		err = copyFile(archive, filepath.Join(dir, filepath.Base(archive)), 0755)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrExtract, "failed to extract %s", filepath.Base(archive))
	}
	return nil
}

func extractTarFile(archive, dir string, kind Kind) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	var r io.Reader = f
	switch kind {
	case KindTarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating gzip reader: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()
		r = gz
	case KindTarXz:
		xzr, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating xz reader: %w", err)
		}
		r = xzr
	}
	return extractTar(tar.NewReader(r), dir)
}

func extractTar(tr *tar.Reader, dir string) error {
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		target, ok := within(dir, header.Name)
		if !ok {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if filepath.IsAbs(header.Linkname) {
				continue
			}
			if _, ok := within(dir, filepath.Join(filepath.Dir(header.Name), header.Linkname)); !ok {
				continue
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("creating symlink %s: %w", header.Name, err)
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, os.FileMode(header.Mode).Perm()); err != nil {
				return err
			}
		}
	}
}

func extractZip(archive, dir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer func() {
		_ = zr.Close()
	}()

	for _, f := range zr.File {
		target, ok := within(dir, f.Name)
		if !ok {
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if f.Mode()&os.ModeSymlink != 0 {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening %s: %w", f.Name, err)
		}
		mode := f.Mode().Perm()
		if mode == 0 {
			mode = 0644
		}
		err = writeEntry(target, rc, mode)
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func gunzipFile(archive, target string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer func() {
		_ = gz.Close()
	}()
	return writeEntry(target, gz, 0755)
}

func copyFile(src, target string, mode os.FileMode) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return writeEntry(target, f, mode)
}

func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("writing file %s: %w", target, err)
	}
	return out.Close()
}

// within joins name onto dir, refusing entries that would escape it
func within(dir, name string) (string, bool) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(name, "./")))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Join(dir, clean), true
}
