package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured frontend origins (comma separated). "*" opens
// the API to any origin, which is only sensible in development.
func CORS(origins string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	lista := make([]string, 0)
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			lista = append(lista, o)
		}
	}
	if len(lista) == 0 || (len(lista) == 1 && lista[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = lista
	}
	return cors.New(cfg)
}
