package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/firo1919/e-commerce-sub000/config"
	chapaControllers "github.com/firo1919/e-commerce-sub000/controllers/chapa"
	orderControllers "github.com/firo1919/e-commerce-sub000/controllers/order"
	"github.com/firo1919/e-commerce-sub000/middleware"
)

func SetupWebhookRoutes(r *gin.Engine, cfg *config.Config, orderSvc *orderControllers.Service, log *zap.Logger) {
	// Webhook endpoint: middleware verifies the gateway signature over the
	// raw body before the handler ever parses it.
	r.POST("/webhook/payment",
		middleware.ChapaWebhookAuth(cfg.ChapaWebhookSecret),
		chapaControllers.WebhookHandler(orderSvc, log),
	)
}
