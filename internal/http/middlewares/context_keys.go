package middlewares

// Keys stashed on the gin context. Plain strings because gin's context
// store is string-keyed.
const (
	CtxRequestID = "request_id"
	CtxUserID    = "auth.userID"
	CtxEmail     = "auth.email"
)
