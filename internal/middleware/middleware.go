package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Setup installs CORS, request logging and panic recovery, in that order.
func Setup(r *gin.Engine, origins []string, log *zap.SugaredLogger) {
	r.Use(CORS(origins))
	r.Use(RequestLogger(log))
	r.Use(Recovery(log))
}

// CORS lets the browser client call the API with credentials. Browsers treat
// "*" literally on credentialed requests, so the headers a client normally
// sends are listed explicitly as well.
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"*",
			"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Language",
			"Authorization", "X-Requested-With", RequestIDHeader,
		},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
