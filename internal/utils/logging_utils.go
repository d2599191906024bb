package utils

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func GenerateTraceId() string {
	return uuid.New().String()
}

// ExtractServiceName returns the service identifier carried in log fields.
func ExtractServiceName() string {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "greenshop-server"
	}
	return service
}

func LogEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	case "panic":
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

func LogMessage(level, message string) {
	entry := log.WithFields(log.Fields{
		"service": ExtractServiceName(),
	})

	LogEntry(entry, level, message)
}

// LogMessageWithFields logs a message enriched with the request's trace ID.
func LogMessageWithFields(c *gin.Context, level, message string) {
	traceId, _ := c.Value(TraceIdKey.String()).(string)

	entry := log.WithFields(log.Fields{
		"traceId": traceId,
		"service": ExtractServiceName(),
	})

	LogEntry(entry, level, message)
}
