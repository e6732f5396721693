package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Matuku45/shuttle-booking-system/internal/domain/models"
	"github.com/Matuku45/shuttle-booking-system/internal/http/middleware"
	"github.com/Matuku45/shuttle-booking-system/internal/services"
)

func shuttleService(c *gin.Context) services.ShuttleService {
	return services.ShuttleService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/shuttles
func GetShuttles(c *gin.Context) {
	shuttles, err := shuttleService(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "shuttles": shuttles})
}

type shuttleCreateRequest struct {
	Route    string  `json:"route"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Duration string  `json:"duration"`
	Pickup   string  `json:"pickup"`
	Seats    int     `json:"seats"`
	Price    float64 `json:"price"`
}

// POST /api/shuttles/add
func CreateShuttle(c *gin.Context) {
	var req shuttleCreateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	shuttle, err := shuttleService(c).Create(c.Request.Context(), models.Shuttle{
		Route:    req.Route,
		Date:     req.Date,
		Time:     req.Time,
		Duration: req.Duration,
		Pickup:   req.Pickup,
		Seats:    req.Seats,
		Price:    req.Price,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "shuttle": shuttle})
}

// PUT /api/shuttles/:id
//
// A zero or empty field means "leave unchanged", so a legitimate update
// to 0 or "" is silently ignored. Long-standing API contract; clients
// depend on it.
func UpdateShuttle(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req shuttleCreateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	patch := models.ShuttlePatch{}
	if req.Route != "" {
		patch.Route = &req.Route
	}
	if req.Date != "" {
		patch.Date = &req.Date
	}
	if req.Time != "" {
		patch.Time = &req.Time
	}
	if req.Duration != "" {
		patch.Duration = &req.Duration
	}
	if req.Pickup != "" {
		patch.Pickup = &req.Pickup
	}
	if req.Seats != 0 {
		patch.Seats = &req.Seats
	}
	if req.Price != 0 {
		patch.Price = &req.Price
	}

	shuttle, err := shuttleService(c).Update(c.Request.Context(), id, patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "shuttle": shuttle})
}

// DELETE /api/shuttles/:id
func DeleteShuttle(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	if err := shuttleService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Shuttle deleted"})
}
