package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devanshshrivastava16/TrustSpace/internal/service"
)

type reviewRequest struct {
	PropertyID string `json:"property_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func (a *API) createReview(c *gin.Context) {
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := a.reviews.Create(c.Request.Context(), principal(c).UserID, service.ReviewInput{
		PropertyID: req.PropertyID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (a *API) registerReview(c *gin.Context) {
	review, err := a.payments.SubmitReview(c.Request.Context(), principal(c).UserID, c.Param("id"))
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, review)
}
