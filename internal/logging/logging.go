package logging

import (
	"fmt"
	"io"
	"os"

	"invui/internal/config"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// New builds the process logger from cfg, writing to out. Text output is
// colored when out is a terminal.
func New(cfg config.LoggingConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging level: %w", err)
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	if cfg.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
		return l, nil
	}
	l.SetFormatter(&logrus.TextFormatter{
		ForceColors:   isTerminal(out),
		DisableColors: !isTerminal(out),
		FullTimestamp: true,
	})
	return l, nil
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
