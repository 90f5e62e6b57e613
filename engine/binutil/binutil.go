package binutil

import (
	"io"
	"os"

	"github.com/colonyrt/compworld/engine/rtlog"
	"github.com/natefinch/lumberjack"
)

// SetupLog sets up the log system of the process
func SetupLog(component string, logLevel string, logFile string, logStderr bool) {
	rtlog.SetSource(component)
	rtlog.Infof("Set log level to %s", logLevel)
	rtlog.SetLevel(rtlog.ParseLevel(logLevel))

	outputWriters := make([]io.Writer, 0, 2)
	if logFile != "" {
		logFileWriter := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 100,
			MaxAge:     30, //days
			Compress:   true,
		}
		logFileWriter.Rotate() // rotate immediately
		outputWriters = append(outputWriters, logFileWriter)
	}

	if logStderr {
		outputWriters = append(outputWriters, os.Stderr)
	}

	switch len(outputWriters) {
	case 0:
		rtlog.SetOutputWriter(io.Discard)
	case 1:
		rtlog.SetOutputWriter(outputWriters[0])
	default:
		rtlog.SetOutputWriter(io.MultiWriter(outputWriters...))
	}
}
