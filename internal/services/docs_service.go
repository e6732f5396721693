package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/Matuku45/shuttle-booking-system/internal/domain"
	"github.com/Matuku45/shuttle-booking-system/internal/domain/models"
	"github.com/Matuku45/shuttle-booking-system/internal/repositories"
	"github.com/Matuku45/shuttle-booking-system/internal/utils"
)

// DocsService renders e-tickets for bookings and receipts for payments.
type DocsService struct {
	BookingRepo repositories.BookingRepository
	ShuttleRepo repositories.ShuttleRepository
	PaymentRepo repositories.PaymentRepository
	RequestID   string
	DB          *sql.DB
}

func (s DocsService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.DB}
}

func (s DocsService) shuttles() repositories.ShuttleRepository {
	if s.ShuttleRepo.DB != nil {
		return s.ShuttleRepo
	}
	return repositories.ShuttleRepository{DB: s.DB}
}

func (s DocsService) payments() repositories.PaymentRepository {
	if s.PaymentRepo.DB != nil {
		return s.PaymentRepo
	}
	return repositories.PaymentRepository{DB: s.DB}
}

func (s DocsService) BookingTicket(ctx context.Context, bookingID int64) ([]byte, string, error) {
	booking, err := s.bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	// Route details are best-effort; the shuttle may be gone by now.
	shuttle, err := s.shuttles().GetByID(ctx, booking.ShuttleID)
	if err != nil && !domain.IsNotFound(err) {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "ticket", fmt.Sprintf("booking_id=%d", bookingID))
	return buildTicketPDF(booking, shuttle)
}

func (s DocsService) PaymentReceipt(ctx context.Context, paymentID int64) ([]byte, string, error) {
	payment, err := s.payments().GetByID(ctx, paymentID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "receipt", fmt.Sprintf("payment_id=%d", paymentID))
	return buildReceiptPDF(payment)
}

func buildTicketPDF(b models.Booking, sh models.Shuttle) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger   : %s", safe(b.PassengerName, "-")),
		fmt.Sprintf("Route       : %s", safe(sh.Route, safe(b.Origin+" - "+b.Destination, "-"))),
		fmt.Sprintf("Date / Time : %s %s", safe(b.DepartureDate, safe(sh.Date, "-")), safe(b.DepartureTime, safe(sh.Time, "-"))),
		fmt.Sprintf("Pickup      : %s", safe(sh.Pickup, "-")),
		fmt.Sprintf("Seats       : %d", b.Seats),
		fmt.Sprintf("Price/Seat  : %.2f", b.PricePerSeat),
		fmt.Sprintf("Status      : %s", safe(b.Status, "-")),
		fmt.Sprintf("Booking Ref : #%d", b.ID),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this ticket at boarding. Valid for the seats listed above.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("TICKET_%d_%s.pdf", b.ID, safeFilenamePart(b.PassengerName))
	return buf.Bytes(), filename, nil
}

func buildReceiptPDF(p models.Payment) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	receiptNo := fmt.Sprintf("RCP-%d", p.ID)
	bookingRef := "-"
	if p.BookingID != nil {
		bookingRef = fmt.Sprintf("#%d", *p.BookingID)
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Receipt No  : %s", receiptNo),
		fmt.Sprintf("Issued      : %s", time.Now().Format("2006-01-02 15:04")),
		fmt.Sprintf("Passenger   : %s", safe(p.PassengerName, "-")),
		fmt.Sprintf("Booking Ref : %s", bookingRef),
		fmt.Sprintf("Amount      : %.2f", p.Amount),
		fmt.Sprintf("Status      : %s", safe(p.Status, "-")),
		fmt.Sprintf("Paid At     : %s", p.PaymentDate.Format("2006-01-02 15:04")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("RECEIPT_%d_%s.pdf", p.ID, safeFilenamePart(p.PassengerName))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" || strings.TrimSpace(s) == "-" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "doc"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(s)
}
