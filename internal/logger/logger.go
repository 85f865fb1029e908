package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// New returns a logger writing text records of at least the given level to out.
func New(out io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05.000000",
	})
	return l, nil
}

// Open appends to <dir>/<name>.log. The returned closer releases the file.
func Open(dir, name, level string) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	f, err := os.OpenFile(filepath.Join(dir, name+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open log file")
	}

	l, err := New(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return l, f, nil
}

// Discard returns a logger which drops everything, used by tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
