package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// 未调用 InitLog 前使用的默认日志，库代码和测试可以直接打日志
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.DateTime,
	Level:           log.InfoLevel,
})

// InitLogTo 输出到指定 writer。REPL 的结果写 stdout，日志走 stderr，避免混在一起
func InitLogTo(w io.Writer, appName string, logLevel string) {
	l := log.New(w)
	l.SetPrefix(appName)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)

	// 启用调用者信息（显示文件名和行号）
	l.SetReportCaller(true)
	l.SetCallerOffset(1)
	l.SetLevel(parseLevel(logLevel))
	logger = l
}

// SetLevel 配置热更新时调整日志级别
func SetLevel(logLevel string) {
	logger.SetLevel(parseLevel(logLevel))
}

func parseLevel(logLevel string) log.Level {
	// 默认为 info 级别
	switch strings.ToLower(logLevel) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func Fatal(format string, args ...any) {
	logger.Fatalf(format, args...)
}

func Info(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warn(format string, args ...any) {
	logger.Warnf(format, args...)
}

func Error(format string, args ...any) {
	logger.Errorf(format, args...)
}

func Debug(format string, args ...any) {
	logger.Debugf(format, args...)
}
