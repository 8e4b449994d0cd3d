package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init configures the process-wide structured logger. Safe to call more
// than once; only the first call takes effect.
func Init() {
	once.Do(func() {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	})
}

func logger() *slog.Logger {
	if log == nil {
		Init()
	}
	return log
}

func attrs(fields map[string]interface{}) []any {
	args := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}
	return args
}

func Info(event string, fields map[string]interface{}) {
	logger().Info(event, attrs(fields)...)
}

func Warn(event string, fields map[string]interface{}) {
	logger().Warn(event, attrs(fields)...)
}

func Error(event string, err error, fields map[string]interface{}) {
	args := attrs(fields)
	if err != nil {
		args = append(args, "error", err.Error())
	}
	logger().Error(event, args...)
}

func InfoWithUser(userID string, event string, fields map[string]interface{}) {
	logger().Info(event, append(attrs(fields), "user_id", userID)...)
}

func WarnWithUser(userID string, event string, fields map[string]interface{}) {
	logger().Warn(event, append(attrs(fields), "user_id", userID)...)
}
