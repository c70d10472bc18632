package canopy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Screenshot queues a labeled screenshot. It is captured at the end of the
// current Update, after layout, and written to Config.ScreenshotDir with a
// timestamped file name.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// SaveScreenshot paints the tree as laid out by the last pass and writes it
// to path as PNG.
func (s *Scene) SaveScreenshot(path string) error {
	ic, err := s.capture()
	if err != nil {
		return err
	}
	if err := ic.SavePNG(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *Scene) capture() (*ImageCanvas, error) {
	root, err := s.tree.node(s.tree.Root())
	if err != nil {
		return nil, err
	}
	w, h := canvasSize(root.absoluteBox)
	ic := NewImageCanvas(w, h)
	if err := s.Paint(ic); err != nil {
		return nil, err
	}
	return ic, nil
}

// flushScreenshots writes every queued screenshot. Failures are logged.
func (s *Scene) flushScreenshots() {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	dir := s.cfg.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Error("screenshot: create directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	ic, err := s.capture()
	if err != nil {
		s.logger.Error("screenshot: paint", zap.Error(err))
		return
	}

	stamp := time.Now().Format("20060102_150405")
	for _, label := range s.screenshotQueue {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := ic.SavePNG(path); err != nil {
			s.logger.Error("screenshot: write", zap.String("path", path), zap.Error(err))
			continue
		}
		s.logger.Debug("screenshot written", zap.String("path", path))
	}
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
