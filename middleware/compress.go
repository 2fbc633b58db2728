package middleware

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
)

// CompressHandler gzips responses for clients that accept it. Sitemaps and
// large aggregate payloads benefit the most.
func CompressHandler(next http.Handler) http.Handler {
	return gorillahandlers.CompressHandler(next)
}
