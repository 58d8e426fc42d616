package app

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger at level writing to out.
func NewLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	l := logrus.New()
	l.SetLevel(lvl)
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l, nil
}
