package slogutil

import (
	"io"
	"log/slog"

	"croissant/internal/config"
	"croissant/internal/paths"
)

// LoggerFactory creates loggers for the CLI according to configuration.
// Precedence for the level: CLI flags > config > default (warn).
type LoggerFactory struct {
	workDir  string
	config   *config.Config
	cliLevel *slog.Level
	closers  []io.Closer
}

// NewLoggerFactory creates a new logger factory. cliLevel is nil when no
// verbosity flag was given.
func NewLoggerFactory(workDir string, cfg *config.Config, cliLevel *slog.Level) *LoggerFactory {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &LoggerFactory{
		workDir:  workDir,
		config:   cfg,
		cliLevel: cliLevel,
	}
}

// CLILogger returns a logger writing to w, teed into
// <workDir>/.croissant/logs/croissant.log when logging.file is enabled. The
// file rotates past logging.maxSize.
// A log file that cannot be opened is skipped rather than failing the command.
func (f *LoggerFactory) CLILogger(w io.Writer) *slog.Logger {
	level := f.EffectiveLevel()
	console := NewLineHandler(w, &slog.HandlerOptions{Level: level})

	if !f.config.Logging.File || f.workDir == "" {
		return slog.New(console)
	}

	if _, err := paths.EnsureLogsDir(f.workDir); err != nil {
		return slog.New(console)
	}
	maxSize, _ := config.ParseSize(f.config.Logging.MaxSize)
	file, err := OpenRotatingFile(paths.LogPath(f.workDir), maxSize, f.config.Logging.MaxBackups)
	if err != nil {
		return slog.New(console)
	}
	f.closers = append(f.closers, file)

	// The file always records at least info so a quiet terminal still
	// leaves a trail.
	fileLevel := level
	if fileLevel > slog.LevelInfo {
		fileLevel = slog.LevelInfo
	}
	return slog.New(NewTeeHandler(console, NewLineHandler(file, &slog.HandlerOptions{Level: fileLevel})))
}

// EffectiveLevel returns the level the console logger uses.
func (f *LoggerFactory) EffectiveLevel() slog.Level {
	if f.cliLevel != nil {
		return *f.cliLevel
	}
	if f.config.Logging.Level != "" {
		return LevelFromString(f.config.Logging.Level)
	}
	return slog.LevelWarn
}

// Close closes all open log files.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
