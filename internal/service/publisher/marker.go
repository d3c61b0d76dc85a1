package publisher

import (
	"context"
	"errors"
	"os"
	"runtime"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/packmill/packmill/internal/logger"
)

const (
	// MarkerFilename marks that a publisher run is in flight to avoid
	// two runs rewriting the manifest and archive concurrently.
	MarkerFilename = "pack-publisher-marker.bin"

	// markerLifetime is the period after which a stale marker is ignored.
	markerLifetime = 30 * time.Second

	// markerFileMode restricts the marker to the current user.
	markerFileMode os.FileMode = 0o600

	// basePublisherExecutable is the publisher binary name without extension.
	basePublisherExecutable = "pack-publisher"
)

// IsPublisherRunningNow checks presence of a marker file and attempts
// recovery if it looks stale.
func IsPublisherRunningNow(ctx context.Context) bool {
	logger.Debug(ctx, "Checking for the presence of a publisher marker")

	fileInfo, err := os.Stat(MarkerFilename)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The publisher marker is too old, attempting cleanup")

		if err = terminateProcessByName(publisherExecutable()); err != nil {
			return true
		}

		if err = os.Remove(MarkerFilename); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	logger.Infof(ctx, "Unable to read publisher marker: %v", err)

	return false
}

// WriteMarker creates the in-flight marker file.
func WriteMarker() error {
	return os.WriteFile(MarkerFilename, []byte(time.Now().UTC().Format(time.RFC3339)), markerFileMode)
}

// RemoveMarker deletes the marker; a missing marker is not an error.
func RemoveMarker() error {
	err := os.Remove(MarkerFilename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

// publisherExecutable returns the platform-specific publisher binary name.
func publisherExecutable() string {
	return basePublisherExecutable + getExecutableExtension()
}

// getExecutableExtension returns ".exe" on Windows and "" elsewhere.
func getExecutableExtension() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}

	return ""
}

// terminateProcessByName tries to kill processes with the provided executable name.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != processName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}
