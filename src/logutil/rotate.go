package logutil

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// openRotating returns a writer appending to path that rotates it once it
// reaches maxSizeMB, keeping at most archives old files.
func openRotating(path string, maxSizeMB, archives int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: archives,
		LocalTime:  true,
	}
}
