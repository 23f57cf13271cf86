package scanner

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxBinarySize bounds decompression so a malformed archive cannot fill
// the disk.
const maxBinarySize = 256 << 20

// extract pulls the named binary entry out of the archive at path and
// writes it executable to dest. The format is chosen by the release
// asset's extension, not the temp file's name.
func extract(path, asset, binary, dest string) error {
	if strings.HasSuffix(asset, ".zip") {
		return extractZip(path, binary, dest)
	}
	return extractTarGz(path, binary, dest)
}

// sanitizeEntryName rejects archive entry names that would escape the
// extraction root.
func sanitizeEntryName(name string) error {
	if filepath.IsAbs(name) {
		return fmt.Errorf("archive entry %q has an absolute path", name)
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry %q escapes the extraction root", name)
	}
	return nil
}

func extractTarGz(path, binary, dest string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		if err := sanitizeEntryName(header.Name); err != nil {
			return err
		}
		if header.Typeflag != tar.TypeReg || filepath.Base(header.Name) != binary {
			continue
		}
		return writeBinary(dest, tr)
	}
	return fmt.Errorf("binary %q not found in archive", binary)
}

func extractZip(path, binary, dest string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if err := sanitizeEntryName(entry.Name); err != nil {
			return err
		}
		if entry.FileInfo().IsDir() || filepath.Base(entry.Name) != binary {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("reading archive entry %s: %w", entry.Name, err)
		}
		defer rc.Close()
		return writeBinary(dest, rc)
	}
	return fmt.Errorf("binary %q not found in archive", binary)
}

func writeBinary(dest string, r io.Reader) error {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755) //nolint:gosec // The scanner must be executable.
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, io.LimitReader(r, maxBinarySize)); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
