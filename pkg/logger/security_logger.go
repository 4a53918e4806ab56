package logger

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var (
	credentialPattern = regexp.MustCompile(`(?i)(api[_-]?key|secret|token|signature|customer)([=:]\s*)([^\s,&"]+)`)
	bearerPattern     = regexp.MustCompile(`(?i)bearer\s+[a-z0-9._\-]+`)
)

// SecurityLogger masks credentials before they reach the log stream.
type SecurityLogger struct {
	*Logger
}

func NewSecurityLogger(base *Logger) *SecurityLogger {
	if base == nil {
		base = GetLogger()
	}
	return &SecurityLogger{Logger: base}
}

// MaskSecret keeps a short fingerprint so two log lines can be correlated
// without revealing the value.
func MaskSecret(secret string) string {
	if secret == "" {
		return "unset"
	}
	sum := sha256.Sum256([]byte(secret))
	return fmt.Sprintf("***%x", sum[:4])
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range []string{"key", "secret", "token", "password", "signature", "customer"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// MaskSensitiveData returns a copy of data with credential-like fields masked.
func (sl *SecurityLogger) MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))
	for key, value := range data {
		if str, ok := value.(string); ok && isSensitiveKey(key) {
			masked[key] = MaskSecret(str)
			continue
		}
		masked[key] = value
	}
	return masked
}

// MaskLogMessage scrubs key=value credentials and bearer tokens from free text,
// typically an upstream error body.
func (sl *SecurityLogger) MaskLogMessage(message string) string {
	masked := credentialPattern.ReplaceAllString(message, "${1}${2}***")
	return bearerPattern.ReplaceAllString(masked, "Bearer ***")
}

func (sl *SecurityLogger) SafeInfo(msg string, fields map[string]interface{}) {
	sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Info(sl.MaskLogMessage(msg))
}

func (sl *SecurityLogger) SafeWarn(msg string, fields map[string]interface{}) {
	sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Warn(sl.MaskLogMessage(msg))
}

func (sl *SecurityLogger) SafeError(msg string, err error, fields map[string]interface{}) {
	masked := sl.MaskSensitiveData(fields)
	if err != nil {
		masked["error"] = sl.MaskLogMessage(err.Error())
	}
	sl.Logger.WithFields(masked).Error(sl.MaskLogMessage(msg))
}

var (
	securityLoggerInstance *SecurityLogger
	securityOnce           sync.Once
)

func GetSecurityLogger() *SecurityLogger {
	securityOnce.Do(func() {
		securityLoggerInstance = NewSecurityLogger(GetLogger())
	})
	return securityLoggerInstance
}
