package render

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/FReptar0/EvoSystems/internal/logger"
)

// copyDirContents recursively copies the files and directories under src
// into dst.
func copyDirContents(src, dst string, log logger.Logger) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dst, relPath)

		if d.IsDir() {
			// os.ModePerm is narrowed by the umask; the source mode is not reused.
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("create directory %s: %w", dstPath, err)
			}
			return nil
		}
		if err := copyFile(path, dstPath, log); err != nil {
			return fmt.Errorf("copy %s to %s: %w", path, dstPath, err)
		}
		log.Debug("Static file copied", logger.String("path", relPath))
		return nil
	})
}

// copyFile copies one file, keeping its permissions when it can.
func copyFile(srcFile, dstFile string, log logger.Logger) error {
	srcF, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcFile, err)
	}
	defer srcF.Close()

	if err := os.MkdirAll(filepath.Dir(dstFile), os.ModePerm); err != nil {
		return fmt.Errorf("create directory for %s: %w", dstFile, err)
	}

	dstF, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("copy data: %w", err)
	}

	srcInfo, err := srcF.Stat()
	if err != nil {
		log.Warn("Could not stat source file", logger.String("path", srcFile), logger.Error(err))
		return nil
	}
	if err := os.Chmod(dstFile, srcInfo.Mode()); err != nil {
		log.Warn("Could not set permissions", logger.String("path", dstFile), logger.Error(err))
	}
	return nil
}
