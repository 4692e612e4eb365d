package core

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const DefaultLogFile = "./navprobe.log"

type customFormatter struct {
	logrus.TextFormatter
}

func (f *customFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	msg := entry.Message
	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k, v := range entry.Data {
			keys = append(keys, fmt.Sprintf("%s=%v", k, v))
		}
		sort.Strings(keys)
		msg = fmt.Sprintf("%s \t%s", msg, strings.Join(keys, " "))
	}
	return []byte(fmt.Sprintf("[%s][%s] \t%s\n", entry.Time.Format(f.TimestampFormat), strings.ToUpper(entry.Level.String()), msg)), nil
}

// InitLogger sets up logrus. Without debug, output is also appended to logFile
// (DefaultLogFile when empty).
func InitLogger(isVerbose, isDebug bool, logFile string) {
	logrus.SetFormatter(&customFormatter{logrus.TextFormatter{
		FullTimestamp:          true,
		TimestampFormat:        "2006-01-02 15:04:05",
		ForceColors:            true,
		DisableLevelTruncation: true,
	}})

	if isVerbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if isDebug {
		logrus.SetOutput(io.MultiWriter(os.Stdout))
		logrus.SetLevel(logrus.TraceLevel)
		logrus.SetReportCaller(true)
		return
	}

	if logFile == "" {
		logFile = DefaultLogFile
	}
	f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		logrus.SetOutput(os.Stdout)
		logrus.Warnf("Failed to open log file %s: %v", logFile, err)
		return
	}
	logrus.SetOutput(io.MultiWriter(f, os.Stdout))
}
