package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldCategory        = "category"
	FieldClickMode       = "click-mode"
	FieldCount           = "count"
	FieldDealID          = "deal-id"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldEvent           = "event"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldMessageID       = "message-id"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldSearch          = "search"
	FieldStack           = "stack"
	FieldTaskID          = "task-id"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
	FieldUserID          = "user-id"
)
