package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/devanshshrivastava16/TrustSpace/internal/service"
)

// API exposes the marketplace services over JSON.
type API struct {
	logger       *slog.Logger
	auth         *service.AuthService
	properties   *service.PropertyService
	bookings     *service.BookingService
	reviews      *service.ReviewService
	payments     *service.PaymentService
	verification *service.VerificationTracker
}

// Services bundles the collaborators of API.
type Services struct {
	Auth         *service.AuthService
	Properties   *service.PropertyService
	Bookings     *service.BookingService
	Reviews      *service.ReviewService
	Payments     *service.PaymentService
	Verification *service.VerificationTracker
}

// NewAPI constructs an API instance.
func NewAPI(logger *slog.Logger, svc Services) *API {
	return &API{
		logger:       logger.With("component", "api"),
		auth:         svc.Auth,
		properties:   svc.Properties,
		bookings:     svc.Bookings,
		reviews:      svc.Reviews,
		payments:     svc.Payments,
		verification: svc.Verification,
	}
}

func (a *API) register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", a.registerUser)
	rg.POST("/auth/login", a.login)
	rg.GET("/properties", a.searchProperties)
	rg.GET("/properties/:id", a.getProperty)
	rg.GET("/properties/:id/reviews", a.propertyReviews)

	p := rg.Group("", requireAuth(a.auth))

	p.GET("/me", a.me)
	p.PATCH("/me", a.updateProfile)
	p.PUT("/me/role", a.updateRole)
	p.POST("/me/wallet", a.createWallet)
	p.GET("/me/wallet", a.walletBalance)
	p.PUT("/me/wallet", a.updateWallet)
	p.POST("/me/wallet/transfer", a.transfer)
	p.POST("/me/kyc", a.submitKYC)
	p.POST("/me/kyc/documents", a.uploadKYCDocument)

	p.POST("/properties", a.createProperty)
	p.PATCH("/properties/:id", a.updateProperty)
	p.POST("/properties/:id/register", a.registerProperty)

	p.POST("/bookings", a.createBooking)
	p.GET("/bookings", a.listBookings)
	p.GET("/bookings/:id", a.getBooking)
	p.PUT("/bookings/:id/status", a.updateBookingStatus)
	p.POST("/bookings/:id/pay", a.payBooking)
	p.POST("/bookings/:id/agreement", a.createAgreement)

	p.POST("/reviews", a.createReview)
	p.POST("/reviews/:id/register", a.registerReview)

	p.POST("/verifications", a.startVerification)
	p.GET("/verifications/:id", a.getVerification)
	p.POST("/verifications/:id/activate", a.activateVerification)
	p.POST("/verifications/:id/images", a.captureVerificationImage)
	p.POST("/verifications/:id/complete", a.completeVerification)
	p.POST("/verifications/:id/evaluate", a.evaluateVerification)
	p.POST("/verifications/:id/cancel", a.cancelVerification)
}
