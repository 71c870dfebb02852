package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/zapdesk/zapdesk/internal/ai"
	"github.com/zapdesk/zapdesk/internal/api/appointments"
	"github.com/zapdesk/zapdesk/internal/api/contacts"
	"github.com/zapdesk/zapdesk/internal/api/conversations"
	"github.com/zapdesk/zapdesk/internal/api/instance"
	"github.com/zapdesk/zapdesk/internal/api/messages"
	"github.com/zapdesk/zapdesk/internal/api/settings"
	"github.com/zapdesk/zapdesk/internal/api/stats"
	"github.com/zapdesk/zapdesk/internal/api/webhook"
	"github.com/zapdesk/zapdesk/internal/config"
	"github.com/zapdesk/zapdesk/internal/loaders"
	"github.com/zapdesk/zapdesk/internal/middleware"
	"github.com/zapdesk/zapdesk/internal/whatsapp"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, db *loaders.PostgresClient, cfg *config.Config) {
	// Apply global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	selector := whatsapp.NewSelector(db, cfg)
	responder := ai.NewResponder(db, cfg)
	contactSync := contacts.NewSyncService(db, selector)

	SetupHealthRoutes(router, db)

	// The vendor webhook is registered before the rate limiter: gateway
	// traffic must never be throttled into a retry storm.
	webhook.RegisterRoutes(router, db, selector, responder, contactSync)

	router.Use(middleware.RateLimitPerIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))

	messages.RegisterRoutes(router, db, selector)
	conversations.RegisterRoutes(router, db)
	contacts.RegisterRoutes(router, db, contactSync)
	appointments.RegisterRoutes(router, db)
	settings.RegisterRoutes(router, db, selector)
	instance.RegisterRoutes(router, selector)
	stats.RegisterRoutes(router, db)

	Setup404Handler(router)
}
