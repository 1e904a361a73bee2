package addon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/FlorianBx/wam/internal/errs"
	"github.com/FlorianBx/wam/internal/logging"
)

// Extractor unpacks branch archives into an addon directory.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logging.OrNop(logger).Named("extract")}
}

// RelativeSafePath maps an archive entry name to a path relative to the
// addon directory. It returns false for entries outside prefix, for the
// prefix directory itself, and for any remainder that is absolute, names a
// volume or alternate stream (contains ':'), or cleans to a path above its
// root. Backslashes are treated as separators.
func RelativeSafePath(entryName, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(entryName, prefix) {
		return "", false
	}

	rel := strings.ReplaceAll(strings.TrimPrefix(entryName, prefix), `\`, "/")
	rel = strings.TrimRight(rel, "/")
	if rel == "" || strings.ContainsAny(rel, ":\x00") || strings.HasPrefix(rel, "/") {
		return "", false
	}

	cleaned := path.Clean(rel)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}

	return filepath.FromSlash(cleaned), true
}

// Extract replaces destDir with the entries of archive found under prefix.
//
// The archive is opened before destDir is touched, so a malformed download
// leaves an existing install intact. Once extraction starts, destDir is
// removed and recreated; an I/O failure midway leaves it partially populated.
// Entries outside prefix are skipped silently. Symlink entries are written as
// regular files containing the link target.
func (e *Extractor) Extract(archive []byte, destDir, prefix string) error {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil && reader == nil {
		detected := mimetype.Detect(archive)
		return errs.New(errs.KindArchive, "open archive",
			fmt.Sprintf("downloaded file is not a valid zip archive (detected %s)", detected.String()), err)
	}
	if err != nil {
		// A usable reader with an error means insecure entry names; they are
		// filtered below like any other entry.
		e.logger.Debug("archive reported insecure entry names", zap.Error(err))
	}

	if err := recreateDir(destDir); err != nil {
		return errs.New(errs.KindExtraction, "prepare addon directory", "could not recreate "+destDir, err)
	}

	root := filepath.Clean(destDir)
	var written, skipped int

	for _, file := range reader.File {
		rel, ok := RelativeSafePath(file.Name, prefix)
		if !ok {
			skipped++
			e.logger.Debug("skipping archive entry", zap.String("entry", file.Name))
			continue
		}

		target := filepath.Join(root, rel)
		if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			skipped++
			e.logger.Warn("skipping archive entry outside addon directory", zap.String("entry", file.Name))
			continue
		}

		if strings.HasSuffix(file.Name, "/") || file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errs.New(errs.KindExtraction, "create directory", rel, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errs.New(errs.KindExtraction, "create directory", filepath.Dir(rel), err)
		}
		if err := writeEntry(file, target); err != nil {
			return err
		}
		written++
	}

	e.logger.Debug("archive extracted",
		zap.String("dest", destDir),
		zap.Int("files", written),
		zap.Int("skipped", skipped))

	return nil
}

// recreateDir removes dir (if present) and creates it empty.
func recreateDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove existing directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return nil
}

// writeEntry copies the decompressed content of file into a new file at target.
func writeEntry(file *zip.File, target string) error {
	src, err := file.Open()
	if err != nil {
		return errs.New(errs.KindArchive, "read archive entry", file.Name, err)
	}
	defer src.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errs.New(errs.KindExtraction, "create file", file.Name, err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		if errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrFormat) || errors.Is(err, io.ErrUnexpectedEOF) {
			return errs.New(errs.KindArchive, "read archive entry", file.Name, err)
		}
		return errs.New(errs.KindExtraction, "write file", file.Name, err)
	}

	if err := out.Close(); err != nil {
		return errs.New(errs.KindExtraction, "write file", file.Name, err)
	}

	return nil
}
