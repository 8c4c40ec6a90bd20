package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/2beens/mm2kbench/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName   string
	LogToStdout   bool
	LogLevel      string
	LogFormatJSON bool
	Environment   string
	// Release tags sentry events, usually the commit hash
	Release          string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
	// SentryLevel is the lowest level forwarded to sentry, error when empty
	SentryLevel string
}

// Setup configures the standard logger. The returned func flushes sentry and
// closes the log file, call it last on shutdown.
func Setup(params LoggerSetupParams) (func(), error) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	var closers []func()
	if params.SentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			Release:          params.Release,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			return func() {}, fmt.Errorf("sentry init: %w", err)
		}

		levels := SentryLevels(params.SentryLevel)
		logrus.AddHook(NewSentryHook(levels))
		closers = append(closers, func() {
			sentry.Flush(sentryFlushTimeout)
		})
		logrus.Infof("sentry set up, forwarding %s and above", levels[len(levels)-1])
	}

	out, fileCloser := logOutput(params)
	logrus.SetOutput(out)
	if fileCloser != nil {
		closers = append(closers, func() {
			_ = fileCloser.Close()
		})
	}

	return func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

func logOutput(params LoggerSetupParams) (io.Writer, io.Closer) {
	if params.LogFileName == "" {
		logrus.Println("writing logs only to STDOUT")
		return os.Stdout, nil
	}

	fileName := params.LogFileName
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    50,    // megabytes
		LocalTime:  false, // false -> use UTC
		Compress:   true,
		MaxBackups: 20,
		MaxAge:     120, // days
	}

	if params.LogToStdout {
		logrus.Println("writing logs to file and STDOUT")
		return pkg.NewCombinedWriter(os.Stdout, lumberJackLogger), lumberJackLogger
	}
	return lumberJackLogger, lumberJackLogger
}

// SentryLevels lists the levels from panic down to the given one.
// Anything below warn is too chatty for sentry and falls back to error.
func SentryLevels(lowest string) []logrus.Level {
	lowestLevel := logrus.ErrorLevel
	if lowest != "" {
		lowestLevel = GetLevel(lowest)
	}
	if lowestLevel > logrus.WarnLevel {
		lowestLevel = logrus.ErrorLevel
	}

	levels := make([]logrus.Level, 0, lowestLevel+1)
	for l := logrus.PanicLevel; l <= lowestLevel; l++ {
		levels = append(levels, l)
	}
	return levels
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn":
		return logrus.WarnLevel
	default:
		return logrus.TraceLevel
	}
}
