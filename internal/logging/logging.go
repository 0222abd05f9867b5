// Package logging configures the global logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Params struct {
	Level    string
	JSON     bool
	FileName string
	// Stdout mirrors file output to stdout. Without a file, logs always go
	// to stdout.
	Stdout bool
}

// Setup applies p to the standard logger. The returned io.Closer releases
// the log file and is a no-op when logging only to stdout.
func Setup(p Params) io.Closer {
	if p.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetLevel(GetLevel(p.Level))

	if p.FileName == "" {
		log.SetOutput(os.Stdout)
		return nopCloser{}
	}

	if !strings.HasSuffix(p.FileName, ".log") {
		p.FileName += ".log"
	}
	file := &lumberjack.Logger{
		Filename:   p.FileName,
		MaxSize:    50, // megabytes
		MaxBackups: 10,
		Compress:   true,
	}

	if p.Stdout {
		log.SetOutput(io.MultiWriter(os.Stdout, file))
	} else {
		log.SetOutput(file)
	}
	return file
}

// GetLevel maps a level name to a logrus level, defaulting to info.
func GetLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
