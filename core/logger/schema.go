package logger

import "strings"

var allowedLevels = map[string]string{
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
}

var allowedStatus = map[string]struct{}{
	"ok":    {},
	"fail":  {},
	"skip":  {},
	"retry": {},
}

func normalizeLevel(level string) string {
	if level == "" {
		return "INFO"
	}
	if mapped, ok := allowedLevels[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

func normalizeStatus(status string) (string, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	_, ok := allowedStatus[status]
	return status, ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"chat_id",
	"handler",
	"command",
	"state_from",
	"state_to",
	"write",
	"backend",
	"namespace",
	"method",
	"path",
	"http_code",
	"duration_ms",
	"payload",
	"mode",
	"listen",
	"err",
	"err_kind",
	"error_kind",
	"attempts",
}
