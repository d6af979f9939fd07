// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// NewLogHandler returns a tint handler writing to f. Colors follow the terminal unless forced.
func NewLogHandler(f *os.File, level string, color string) (slog.Handler, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, errors.Wrap(err, "log level")
		}
	}

	var noColor bool
	switch color {
	case "always":
		noColor = false
	case "never":
		noColor = true
	case "", "auto":
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	default:
		return nil, errors.Errorf("unknown log color %q", color)
	}

	return tint.NewHandler(f, &tint.Options{
		Level:      lvl,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	}), nil
}

// InitLogger installs the handler on the default logger.
func InitLogger(cfg *Config) error {
	h, err := NewLogHandler(os.Stderr, cfg.LogLevel, cfg.LogColor)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(h))
	return nil
}
