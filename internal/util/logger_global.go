package util

import (
	"sync"
)

var (
	globalLogger LoggerInterface = discardLogger()
	loggerMu     sync.RWMutex
	loggerOnce   sync.Once
)

func discardLogger() LoggerInterface {
	return &Logger{sink: &sink{level: LevelError}, fields: map[string]interface{}{}}
}

// InitLogger initializes the global logger instance with debug mode support.
// Only the first call has an effect.
func InitLogger(logLevel, logFile string, debugToConsole bool, opts ...LoggerOption) {
	loggerOnce.Do(func() {
		SetLogger(NewLogger(logLevel, logFile, debugToConsole, opts...))
	})
}

// SetLogger replaces the global logger.
func SetLogger(logger LoggerInterface) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = discardLogger()
	}
	globalLogger = logger
}

// GetLogger returns the global logger.
func GetLogger() LoggerInterface {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

// Named returns the global logger tagged with a component name.
func Named(component string) LoggerInterface {
	return GetLogger().Named(component)
}

func LogInfo(msg string, fields ...Field) {
	GetLogger().Info(msg, fields...)
}

func LogInfof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

func LogDebug(msg string, fields ...Field) {
	GetLogger().Debug(msg, fields...)
}

func LogDebugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

func LogWarn(msg string, fields ...Field) {
	GetLogger().Warn(msg, fields...)
}

func LogWarnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}

func LogError(msg string, fields ...Field) {
	GetLogger().Error(msg, fields...)
}

func LogErrorf(format string, args ...interface{}) {
	GetLogger().Errorf(format, args...)
}
