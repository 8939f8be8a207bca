package logging

import (
	"log"
	"os"

	"github.com/books-api/cmd/api/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Setup builds the service logger. Production writes JSON to stdout,
// development writes the console format. Stacktraces start at error level.
func Setup(cfg config.Config) (*zap.Logger, func()) {
	var encoder zapcore.Encoder
	if cfg.IsProduction {
		encoder = zapcore.NewJSONEncoder(encoderConfig(zap.NewProductionEncoderConfig()))
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig(zap.NewDevelopmentEncoderConfig()))
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), cfg.LogLevel)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Named("books-api")

	flusher := func() {
		if err := logger.Sync(); err != nil {
			log.Println("error during flushing any buffered log entries:", err)
		}
	}

	return logger, flusher
}

func encoderConfig(zapConfig zapcore.EncoderConfig) zapcore.EncoderConfig {
	zapConfig.TimeKey = "timestamp"
	zapConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.LevelKey = "level"
	zapConfig.NameKey = "name"
	zapConfig.MessageKey = "msg"
	zapConfig.CallerKey = "caller"
	zapConfig.StacktraceKey = "stacktrace"
	return zapConfig
}
