// Package trace gives every invocation a request id carried by its xlog logger.
package trace

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/qiniu/x/xlog"
)

// TraceID identifies one invocation in the logs
type TraceID string

// TracePrefix starts every generated trace id
const TracePrefix = "omni_comment"

// loggerKey is where xlog.NewWith looks for the logger of a context
const loggerKey = "logger"

func generateTraceID() TraceID {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return TraceID(fmt.Sprintf("%s_%d", TracePrefix, time.Now().UnixNano()))
	}
	return TraceID(fmt.Sprintf("%s_%x", TracePrefix, bytes))
}

// NewTraceID creates a trace id. A non-empty runID (the workflow run id) is
// embedded so logs of one workflow run can be grouped.
func NewTraceID(runID string) TraceID {
	if runID == "" {
		return generateTraceID()
	}
	return TraceID(fmt.Sprintf("%s_%s", generateTraceID(), runID))
}

// NewContext returns a context whose logger carries traceID
func NewContext(ctx context.Context, traceID TraceID) context.Context {
	logger := xlog.New(string(traceID))
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored by NewContext, or nil
func FromContext(ctx context.Context) *xlog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*xlog.Logger); ok {
		return logger
	}
	return nil
}

// GetTraceID returns the trace id of ctx, or "" when it has none
func GetTraceID(ctx context.Context) TraceID {
	logger := FromContext(ctx)
	if logger == nil {
		return ""
	}
	return TraceID(logger.ReqId)
}
