package utils

import (
	"errors"
	"log"
	"strings"
)

// LogEvent prints a log line tagged with module, action and request id.
// Never pass credentials or tokens in message.
func LogEvent(requestID, module, action, message string) {
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, strings.TrimSpace(requestID), message)
}

// LogError logs err including the wrapped cause, which callers never see.
func LogError(requestID, module, action string, err error) {
	if err == nil {
		return
	}
	cause := err
	if inner := errors.Unwrap(err); inner != nil {
		cause = inner
	}
	log.Printf("[%s] action=%s request_id=%s error=%q cause=%q", strings.ToUpper(module), action, strings.TrimSpace(requestID), err.Error(), cause.Error())
}
