package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/Matuku45/shuttle-booking-system/internal/config"
	h "github.com/Matuku45/shuttle-booking-system/internal/http/handlers"
	"github.com/Matuku45/shuttle-booking-system/internal/http/middleware"
)

func NewRouter(env config.Env) *gin.Engine {
	_ = env

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(), middleware.Auth())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{"success": false, "message": "Not Found"})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", middleware.RequireRoles("admin"), h.DBCheck)

		shuttles := api.Group("/shuttles")
		shuttles.GET("", h.GetShuttles)
		shuttles.POST("/add", h.CreateShuttle)
		shuttles.PUT("/:id", h.UpdateShuttle)
		shuttles.DELETE("/:id", h.DeleteShuttle)

		bookings := api.Group("/bookings")
		bookings.GET("", h.GetBookings)
		bookings.GET("/:id", h.GetBookingByID)
		bookings.POST("/create", h.CreateBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
		bookings.GET("/:id/ticket", h.GetBookingTicket)

		payments := api.Group("/payments")
		payments.GET("", h.GetPayments)
		payments.POST("/create", h.CreatePayment)
		payments.PUT("/:id", h.UpdatePayment)
		payments.DELETE("/:id", h.DeletePayment)
		payments.GET("/:id/receipt", h.GetPaymentReceipt)
	}

	users := r.Group("/users")
	{
		users.GET("", h.GetUsers)
		users.GET("/:id", h.GetUserByID)
		users.POST("/create", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
		users.POST("/login", h.Login)
	}

	return r
}
