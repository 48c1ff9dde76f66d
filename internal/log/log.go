// Package log writes one JSON object per line through the standard logger, so the
// file sink configured in main receives the same stream as stdout.
package log

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the fiber Locals key the auth middleware stores the caller id under.
const UserIDKey = "user_id"

const (
	LevelInfo  = "info"
	LevelAudit = "audit"
	LevelWarn  = "warn"
	LevelError = "error"
)

type entry struct {
	TS        string         `json:"ts"`
	Level     string         `json:"level"`
	ReqID     string         `json:"req_id,omitempty"`
	IP        string         `json:"ip,omitempty"`
	Method    string         `json:"method,omitempty"`
	Path      string         `json:"path,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Action    string         `json:"action,omitempty"`
	Status    int            `json:"status,omitempty"`
	LatencyMs int64          `json:"latency_ms,omitempty"`
	Err       string         `json:"err,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func (e *entry) fromRequest(c *fiber.Ctx) {
	e.IP = c.IP()
	e.Method = c.Method()
	e.Path = c.Path()
	e.Status = c.Response().StatusCode()
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		e.ReqID = rid
	}
	if uid, ok := c.Locals(UserIDKey).(string); ok {
		e.UserID = uid
	}
}

func emit(e entry) {
	e.TS = time.Now().UTC().Format(time.RFC3339)
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry{Level: level, Action: action, Fields: fields}
	if c != nil {
		e.fromRequest(c)
	}
	if err != nil {
		e.Err = err.Error()
	}
	emit(e)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write(LevelInfo, c, action, nil, fields) }

// Audit records a state change made by the caller.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(LevelAudit, c, action, nil, fields)
}

// Security records a rejected or suspicious request at warn level.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(LevelWarn, c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(LevelError, c, action, err, fields)
}

// Event logs outside a request, e.g. cache or storage housekeeping.
func Event(level, action string, err error, fields map[string]any) {
	write(level, nil, action, err, fields)
}

// Access logs every request as "http.access" once the handler chain has finished.
// Server errors are logged at error level, client errors at warn.
func Access() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		e := entry{Level: LevelInfo, Action: "http.access", LatencyMs: time.Since(start).Milliseconds()}
		e.fromRequest(c)
		switch {
		case e.Status >= 500:
			e.Level = LevelError
		case e.Status >= 400:
			e.Level = LevelWarn
		}
		emit(e)
		return nil
	}
}
