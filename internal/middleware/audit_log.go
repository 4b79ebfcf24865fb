package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/service"
)

// Context keys handlers set so request and audit logs can be correlated with
// an order session or a submitted order.
const (
	ContextKeySessionID   = "session_id"
	ContextKeyOrderNumber = "order_number"
)

// AuditLog records a business action such as an order submission or a price
// table change.
func AuditLog(loggingService service.LoggingService, c *gin.Context, actionType string, message string, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}
	entry := newLogEntry(c, "info", message)
	entry.ActionType = actionType
	entry.Fields = fields
	storeLogEntry(loggingService, entry)
}

// AuditLogError records a business action that failed.
func AuditLogError(loggingService service.LoggingService, c *gin.Context, actionType string, message string, err error, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}
	entry := newLogEntry(c, "error", message)
	entry.ActionType = actionType
	entry.Fields = fields
	if err != nil {
		entry.Error = err.Error()
	}
	storeLogEntry(loggingService, entry)
}

// newLogEntry fills the request, caller and order correlation fields of an entry.
func newLogEntry(c *gin.Context, level, message string) *model.LogEntry {
	return &model.LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		RequestID: GetRequestID(c),
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		UserID:    GetUserID(c),
		UserEmail: c.GetString(ContextKeyUserEmail),
		SessionID: c.GetString(ContextKeySessionID),
		OrderNum:  c.GetString(ContextKeyOrderNumber),
	}
}

// storeLogEntry hands the entry to the async logger when one is running and
// otherwise writes it from a goroutine.
func storeLogEntry(loggingService service.LoggingService, entry *model.LogEntry) {
	if asyncLogger := GetAsyncLogger(); asyncLogger != nil {
		asyncLogger.Log(entry)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = loggingService.CreateLog(ctx, entry)
	}()
}
