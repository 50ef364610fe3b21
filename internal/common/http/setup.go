package http

import (
	"net/http"

	"github.com/AlibekovAA/account-service/backend/internal/common/constants"
	"github.com/AlibekovAA/account-service/backend/internal/common/httpmetrics"
	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
)

func BuildBaseHandler(appName string, log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New(appName)
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(TraceIDMiddleware(recovery(maxRequestSize(metrics.Wrap(handler)))))
}
