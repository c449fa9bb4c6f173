package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/CijeTheCreator/consultify/internal/common"
	"github.com/CijeTheCreator/consultify/internal/config"
	"github.com/CijeTheCreator/consultify/internal/httpapi/handlers"
	"github.com/CijeTheCreator/consultify/internal/httpapi/middleware"
	"github.com/CijeTheCreator/consultify/internal/prescription"
	"github.com/CijeTheCreator/consultify/internal/store/redisstore"
)

func NewRouter(db *gorm.DB, cfg config.Config, rds *redisstore.Store, emailer prescription.EmailEnqueuer) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Identity(cfg.JWTSecret))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, rds, emailer)

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/users/doctors", h.ListDoctors)

	api.POST("/consultations", h.CreateConsultation)
	api.GET("/consultations", h.ListConsultations)
	api.POST("/consultations/complete-triage", h.CompleteTriage)
	api.GET("/consultations/:id", h.GetConsultation)
	api.GET("/consultations/:id/messages", h.ListMessages)
	api.POST("/consultations/:id/messages", h.PostMessage)
	api.POST("/consultations/:id/messages/:messageId/read", h.MarkMessageRead)
	api.POST("/consultations/:id/triage", h.TriageMessage)
	api.POST("/consultations/:id/prescription", h.CreatePrescription)

	return r
}
