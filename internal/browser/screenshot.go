package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ScreenshotSink captures screenshots from a driver into the artifact dir
// with sequential names, and notifies an optional attach callback so the
// capture lands in the report.
type ScreenshotSink struct {
	driver Driver
	dir    string
	log    zerolog.Logger
	n      int

	// Attach is called with the label and file path of each capture.
	Attach func(label, path string)
}

// NewScreenshotSink binds a sink to a driver. Captures go under
// artifactDir/screenshots/<testName>/.
func NewScreenshotSink(driver Driver, artifactDir, testName string, log zerolog.Logger) *ScreenshotSink {
	safe := strings.NewReplacer("/", "_", " ", "_").Replace(testName)
	return &ScreenshotSink{
		driver: driver,
		dir:    filepath.Join(artifactDir, "screenshots", safe),
		log:    log,
	}
}

// Capture takes a screenshot and returns its path. Failures are logged
// and swallowed: a broken capture must never mask the test verdict.
func (s *ScreenshotSink) Capture(label string) string {
	if s == nil || s.driver == nil {
		return ""
	}
	png, err := s.driver.Screenshot()
	if err != nil {
		s.log.Warn().Err(err).Str("label", label).Msg("screenshot capture failed")
		return ""
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Warn().Err(err).Msg("screenshot dir creation failed")
		return ""
	}
	s.n++
	safe := strings.NewReplacer("/", "_", " ", "_", ":", "_").Replace(label)
	path := filepath.Join(s.dir, fmt.Sprintf("%02d_%s.png", s.n, safe))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		s.log.Warn().Err(err).Msg("screenshot write failed")
		return ""
	}
	s.log.Debug().Str("label", label).Str("path", path).Msg("screenshot captured")
	if s.Attach != nil {
		s.Attach(label, path)
	}
	return path
}
