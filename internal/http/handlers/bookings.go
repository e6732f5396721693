package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Matuku45/shuttle-booking-system/internal/domain/models"
	"github.com/Matuku45/shuttle-booking-system/internal/http/middleware"
	"github.com/Matuku45/shuttle-booking-system/internal/services"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{RequestID: middleware.GetRequestID(c)}
}

func docsService(c *gin.Context) services.DocsService {
	return services.DocsService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/bookings
func GetBookings(c *gin.Context) {
	bookings, err := bookingService(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

// GET /api/bookings/:id
func GetBookingByID(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	booking, err := bookingService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

type bookingCreateRequest struct {
	PassengerName string  `json:"passenger_name"`
	ShuttleID     int64   `json:"shuttle_id"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	DepartureTime string  `json:"departure_time"`
	Duration      string  `json:"duration"`
	PickupWindow  int     `json:"pickup_window"`
	Seats         int     `json:"seats"`
	PricePerSeat  float64 `json:"price_per_seat"`
}

// POST /api/bookings/create
func CreateBooking(c *gin.Context) {
	var req bookingCreateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := bookingService(c).Create(c.Request.Context(), models.Booking{
		PassengerName: req.PassengerName,
		ShuttleID:     req.ShuttleID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		DepartureTime: req.DepartureTime,
		Duration:      req.Duration,
		PickupWindow:  req.PickupWindow,
		Seats:         req.Seats,
		PricePerSeat:  req.PricePerSeat,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "booking": booking})
}

type bookingUpdateRequest struct {
	PassengerName string `json:"passenger_name"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	DepartureTime string `json:"departure_time"`
	Duration      string `json:"duration"`
	PickupWindow  int    `json:"pickup_window"`
	Status        string `json:"status"`
}

// PUT /api/bookings/:id
//
// Zero/empty fields are left unchanged (same contract as shuttles).
// Seat counts are not client-writable; the booking transaction owns them.
func UpdateBooking(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req bookingUpdateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	patch := models.BookingPatch{}
	if req.PassengerName != "" {
		patch.PassengerName = &req.PassengerName
	}
	if req.Origin != "" {
		patch.Origin = &req.Origin
	}
	if req.Destination != "" {
		patch.Destination = &req.Destination
	}
	if req.DepartureDate != "" {
		patch.DepartureDate = &req.DepartureDate
	}
	if req.DepartureTime != "" {
		patch.DepartureTime = &req.DepartureTime
	}
	if req.Duration != "" {
		patch.Duration = &req.Duration
	}
	if req.PickupWindow != 0 {
		patch.PickupWindow = &req.PickupWindow
	}
	if req.Status != "" {
		patch.Status = &req.Status
	}

	booking, err := bookingService(c).Update(c.Request.Context(), id, patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// DELETE /api/bookings/:id
func DeleteBooking(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	if err := bookingService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking deleted"})
}

// GET /api/bookings/:id/ticket
func GetBookingTicket(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	pdf, filename, err := docsService(c).BookingTicket(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
