package config

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging points the standard logger at stdout and, when LOG_FILE is
// set, also at a size-rotated file. The returned writer is what the access
// log middleware should use; the closer releases the file.
func SetupLogging(cfg LogConfig) (io.Writer, io.Closer) {
	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return os.Stdout, nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	w := io.MultiWriter(os.Stdout, rotator)
	log.SetOutput(w)
	log.Printf("📝 Logging to %s (max %dMB, %d backups, %d days)", cfg.File, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)

	return w, rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
