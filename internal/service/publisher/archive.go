package publisher

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/packmill/packmill/internal/logger"
)

const (
	// stagingSuffix names the temporary directory archives are staged in.
	stagingSuffix = "_staging"

	// stagedDirMode is used for directories created while staging.
	stagedDirMode os.FileMode = 0o755
)

// Package copies only the allow-listed relative paths from sourceDir into a
// clean staging directory and zips that directory into outputZip. Files
// outside the allow-list never reach the archive. Missing entries are
// logged and skipped rather than failing the run.
func Package(ctx context.Context, sourceDir string, includePaths []string, outputZip string) error {
	staging := strings.TrimSuffix(outputZip, filepath.Ext(outputZip)) + stagingSuffix

	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("clean staging directory: %w", err)
	}

	if err := os.MkdirAll(staging, stagedDirMode); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(staging)
	}()

	for _, include := range includePaths {
		source := filepath.Join(sourceDir, include)
		target := filepath.Join(staging, include)

		info, err := os.Stat(source)
		if errors.Is(err, os.ErrNotExist) {
			logger.WarnKV(ctx, "Include path not found, skipping", "path", source)
			continue
		} else if err != nil {
			return fmt.Errorf("stat %s: %w", source, err)
		}

		if info.IsDir() {
			err = copyTree(source, target)
		} else {
			err = copyFile(source, target, info.Mode())
		}

		if err != nil {
			return err
		}
	}

	if err := zipDirectory(staging, outputZip); err != nil {
		return err
	}

	archiveInfo, err := os.Stat(outputZip)
	if err != nil {
		return fmt.Errorf("stat archive: %w", err)
	}

	logger.InfoKV(ctx, "Created archive", "path", outputZip, "bytes", archiveInfo.Size())

	return nil
}

// copyTree copies a directory recursively.
func copyTree(source, target string) error {
	return filepath.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relative, err := filepath.Rel(source, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		destination := filepath.Join(target, relative)

		if entry.IsDir() {
			return os.MkdirAll(destination, stagedDirMode)
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		return copyFile(path, destination, info.Mode())
	})
}

// copyFile copies a single file, creating parent directories as needed.
func copyFile(source, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), stagedDirMode); err != nil {
		return fmt.Errorf("create directory for %s: %w", target, err)
	}

	in, err := os.Open(filepath.Clean(source))
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", source, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}

	return nil
}

// zipDirectory archives the contents of root into outputZip with
// forward-slash entry names relative to root.
func zipDirectory(root, outputZip string) error {
	archive, err := os.Create(filepath.Clean(outputZip))
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	writer := zip.NewWriter(archive)

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if path == root {
			return nil
		}

		relative, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("relativize %s: %w", path, relErr)
		}

		name := filepath.ToSlash(relative)

		if entry.IsDir() {
			// Keep explicit directory entries so empty directories survive.
			_, dirErr := writer.Create(name + "/")
			return dirErr
		}

		in, openErr := os.Open(filepath.Clean(path))
		if openErr != nil {
			return fmt.Errorf("open %s: %w", path, openErr)
		}

		defer func() {
			_ = in.Close()
		}()

		out, createErr := writer.Create(name)
		if createErr != nil {
			return fmt.Errorf("create archive entry %s: %w", name, createErr)
		}

		if _, copyErr := io.Copy(out, in); copyErr != nil {
			return fmt.Errorf("write archive entry %s: %w", name, copyErr)
		}

		return nil
	})
	if err != nil {
		_ = writer.Close()
		_ = archive.Close()

		return err
	}

	if err = writer.Close(); err != nil {
		_ = archive.Close()
		return fmt.Errorf("finish archive: %w", err)
	}

	if err = archive.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	return nil
}
