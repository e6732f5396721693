package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Matuku45/shuttle-booking-system/internal/domain/models"
	"github.com/Matuku45/shuttle-booking-system/internal/http/middleware"
	"github.com/Matuku45/shuttle-booking-system/internal/services"
)

func paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/payments
func GetPayments(c *gin.Context) {
	payments, err := paymentService(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payments": payments})
}

type paymentCreateRequest struct {
	PassengerName string  `json:"passenger_name"`
	ShuttleID     int64   `json:"shuttle_id"`
	BookingID     *int64  `json:"booking_id"`
	Amount        float64 `json:"amount"`
}

// POST /api/payments/create
func CreatePayment(c *gin.Context) {
	var req paymentCreateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	payment, err := paymentService(c).Create(c.Request.Context(), models.Payment{
		PassengerName: req.PassengerName,
		ShuttleID:     req.ShuttleID,
		BookingID:     req.BookingID,
		Amount:        req.Amount,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "payment": payment})
}

type paymentUpdateRequest struct {
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
}

// PUT /api/payments/:id
//
// Zero/empty fields are left unchanged (same contract as shuttles).
func UpdatePayment(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req paymentUpdateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	patch := models.PaymentPatch{}
	if req.Amount != 0 {
		patch.Amount = &req.Amount
	}
	if req.Status != "" {
		patch.Status = &req.Status
	}

	payment, err := paymentService(c).Update(c.Request.Context(), id, patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}

// DELETE /api/payments/:id
func DeletePayment(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	if err := paymentService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment deleted"})
}

// GET /api/payments/:id/receipt
func GetPaymentReceipt(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	pdf, filename, err := docsService(c).PaymentReceipt(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
