package evidence

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/karust/navprobe/core"
	"github.com/sirupsen/logrus"
)

const DefaultDir = "screenshots"

// Surface is whatever can render the current page.
type Surface interface {
	Screenshot() ([]byte, error)
}

type Capturer struct {
	Dir   string
	Clock func() time.Time
}

func NewCapturer(dir string) *Capturer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Capturer{Dir: dir, Clock: time.Now}
}

// EnsureDir creates dir when missing. Safe to call repeatedly and from
// several processes at once.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// Timestamp renders hour, minute, second, day of month and milliseconds,
// e.g. 14300519042 for 14:30:05.042 on the 19th.
func Timestamp(t time.Time) string {
	return fmt.Sprintf("%s%s%03d", t.Format("150405"), t.Format("02"), t.Nanosecond()/int(time.Millisecond))
}

// FileName is {timestamp}_{name}; ext is appended unless name carries one.
// Two captures of one name within the same millisecond get the same file.
func FileName(t time.Time, name, ext string) string {
	if filepath.Ext(name) == "" {
		name += ext
	}
	return Timestamp(t) + "_" + name
}

// Capture writes the surface's current rendering and returns the file path.
// Errors are the only hard failure a case can report.
func (c *Capturer) Capture(surface Surface, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty evidence name", core.ErrEvidenceCapture)
	}

	if err := EnsureDir(c.Dir); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", core.ErrEvidenceCapture, c.Dir, err)
	}

	ext := ".png"
	if f, ok := surface.(core.EvidenceFormat); ok {
		ext = f.EvidenceExt()
	}

	clock := c.Clock
	if clock == nil {
		clock = time.Now
	}
	path := filepath.Join(c.Dir, FileName(clock(), name, ext))

	data, err := surface.Screenshot()
	if err != nil {
		return "", fmt.Errorf("%w: screenshot: %v", core.ErrEvidenceCapture, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", core.ErrEvidenceCapture, path, err)
	}

	logrus.Infof("Evidence saved: %s", path)
	return path, nil
}
