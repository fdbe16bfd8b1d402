package http

import (
	"log"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response wrapper for every endpoint outcome. The
// code field carries the domain status; the transport status is 200 OK for
// every handled request, matching what existing clients expect.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// respond writes the envelope. A nil data value is rendered as an empty
// array, never as null. Repositories return nil slices for empty results,
// which are non-nil as any, so the check has to look through the interface.
func respond(c *gin.Context, code int, message string, data any) {
	if isNilData(data) {
		data = []any{}
	}
	c.JSON(http.StatusOK, Envelope{Code: code, Message: message, Data: data})
}

func isNilData(data any) bool {
	if data == nil {
		return true
	}
	switch v := reflect.ValueOf(data); v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

// respondStoreError logs the underlying failure and reports a 500 envelope.
// The error itself is never exposed to the client.
func respondStoreError(c *gin.Context, err error, context string) {
	log.Printf("store error (%s): %v", context, err)
	respond(c, http.StatusInternalServerError, "internal server error", nil)
}

func respondBadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, message, nil)
}
