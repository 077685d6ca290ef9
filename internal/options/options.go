package options

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// InputExtension is the extension every scanner log carries.
const InputExtension = ".utd"

var ErrInvalidInputPath = errors.New("invalid input path")

type contextKey struct{}

// WithLogger stores the provided log entry inside the context.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	if entry == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, entry)
}

// Logger retrieves the log entry from context, or a logger that discards
// everything when none was stored.
func Logger(ctx context.Context) *logrus.Entry {
	if v := ctx.Value(contextKey{}); v != nil {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return discard
}

var discard = func() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}()

// ValidateInputPath checks that path names an existing regular file with the
// .utd extension.
func ValidateInputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidInputPath)
	}
	if !strings.EqualFold(filepath.Ext(path), InputExtension) {
		return fmt.Errorf("%w: %s does not have the %s extension", ErrInvalidInputPath, path, InputExtension)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInputPath, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInvalidInputPath, path)
	}
	return nil
}

// OutputPath replaces the input extension with ext, keeping the directory.
func OutputPath(input, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + ext
}

// ParseLogLevel maps a flag value onto a logrus level; empty means info.
func ParseLogLevel(s string) (logrus.Level, error) {
	if strings.TrimSpace(s) == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level: %w", err)
	}
	return lvl, nil
}
