package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/service"
)

type bookingRequest struct {
	PropertyID string `json:"property_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

func (a *API) createBooking(c *gin.Context) {
	var req bookingRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := a.bookings.Create(c.Request.Context(), principal(c).UserID, service.BookingInput{
		PropertyID: req.PropertyID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
	})
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// listBookings serves the guest view by default and the owner dashboard
// with role=owner.
func (a *API) listBookings(c *gin.Context) {
	page, err := a.bookings.List(c.Request.Context(), principal(c).UserID, service.ListBookingsParams{
		Role:       service.BookingRole(c.Query("role")),
		Status:     domain.BookingStatus(c.Query("status")),
		PropertyID: c.Query("property_id"),
		Page:       parseInt(c.Query("page"), 1),
		PageSize:   parseInt(c.Query("page_size"), 50),
	})
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, bookingsResponse{Items: page.Items, Pagination: page.Pagination})
}

func (a *API) getBooking(c *gin.Context) {
	booking, err := a.bookings.Get(c.Request.Context(), principal(c).UserID, c.Param("id"))
	respondBooking(c, a, booking, err)
}

func (a *API) updateBookingStatus(c *gin.Context) {
	var req struct {
		Status domain.BookingStatus `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	booking, err := a.bookings.UpdateStatus(c.Request.Context(), principal(c).UserID, c.Param("id"), req.Status)
	respondBooking(c, a, booking, err)
}

func (a *API) payBooking(c *gin.Context) {
	booking, err := a.payments.SettleBooking(c.Request.Context(), principal(c).UserID, c.Param("id"))
	respondBooking(c, a, booking, err)
}

func (a *API) createAgreement(c *gin.Context) {
	booking, err := a.payments.CreateAgreement(c.Request.Context(), principal(c).UserID, c.Param("id"))
	respondBooking(c, a, booking, err)
}

func respondBooking(c *gin.Context, a *API, booking domain.Booking, err error) {
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
