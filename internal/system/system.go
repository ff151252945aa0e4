package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

var (
	MappingExtensions     = []string{".txt", ".tsv", ".map"}
	CoordinatesExtensions = []string{".tsv", ".txt", ".coords"}
)

// FindLatest returns the most recently modified file in dir with one of the
// given extensions. Names containing skip are ignored.
func FindLatest(dir string, extensions []string, skip string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := strings.ToLower(f.Name())
		if skip != "" && strings.Contains(name, skip) {
			continue
		}
		if !hasExtension(name, extensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов (%s)", dir, strings.Join(extensions, ", "))
	}

	return latestFile, nil
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// DefaultWorkers returns the number of physical cores, falling back to the
// logical CPU count when it cannot be determined.
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// CheckFFmpeg verifies that ffmpeg is on PATH.
func CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg не найден в PATH: %w", err)
	}
	return nil
}

func GetBestH264Encoder() string {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}

	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), name) {
			return name
		}
	}

	return "libx264"
}

// DefaultQuality returns a quality setting suited to the encoder.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // битрейт = Q*100 кбит/с
	case "h264_nvenc":
		return 28
	default:
		return 23 // CRF для x264
	}
}
