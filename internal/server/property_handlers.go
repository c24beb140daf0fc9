package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/service"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

type propertyRequest struct {
	Title       string              `json:"title"`
	Location    string              `json:"location"`
	Type        domain.PropertyType `json:"property_type"`
	PricePerDay float64             `json:"price_per_day"`
	Capacity    int                 `json:"capacity"`
	Description string              `json:"description"`
	Amenities   []string            `json:"amenities"`
	Rules       []string            `json:"rules"`
	Images      []string            `json:"images"`
}

func (a *API) createProperty(c *gin.Context) {
	var req propertyRequest
	if !bindJSON(c, &req) {
		return
	}
	prop, err := a.properties.Create(c.Request.Context(), principal(c).UserID, service.PropertyInput{
		Title:       req.Title,
		Location:    req.Location,
		Type:        req.Type,
		PricePerDay: req.PricePerDay,
		Capacity:    req.Capacity,
		Description: req.Description,
		Amenities:   req.Amenities,
		Rules:       req.Rules,
		Images:      req.Images,
	})
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, prop)
}

func (a *API) updateProperty(c *gin.Context) {
	var patch map[string]any
	if !bindJSON(c, &patch) {
		return
	}
	prop, err := a.properties.Update(c.Request.Context(), principal(c).UserID, c.Param("id"), store.Patch(patch))
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, prop)
}

func (a *API) getProperty(c *gin.Context) {
	prop, err := a.properties.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, prop)
}

func (a *API) searchProperties(c *gin.Context) {
	search, err := parsePropertySearch(c)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	page, err := a.properties.Search(c.Request.Context(), search)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, propertiesResponse{Items: page.Items, Pagination: page.Pagination})
}

func (a *API) registerProperty(c *gin.Context) {
	prop, err := a.payments.RegisterProperty(c.Request.Context(), principal(c).UserID, c.Param("id"))
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, prop)
}

func (a *API) propertyReviews(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := a.properties.Get(ctx, id); err != nil {
		fail(c, a.logger, err)
		return
	}
	reviews, err := a.reviews.List(ctx, id)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	summary, err := a.reviews.AverageRating(ctx, id)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, reviewsResponse{Reviews: reviews, Summary: summary})
}

func parsePropertySearch(c *gin.Context) (service.PropertySearch, error) {
	s := service.PropertySearch{
		OwnerID:  c.Query("owner_id"),
		Status:   domain.PropertyStatus(c.Query("status")),
		Type:     domain.PropertyType(c.Query("property_type")),
		Location: c.Query("location"),
		Page:     parseInt(c.Query("page"), 1),
		PageSize: parseInt(c.Query("page_size"), 50),
	}
	var err error
	if s.Verified, err = queryBool(c, "verified"); err != nil {
		return service.PropertySearch{}, err
	}
	if s.PriceMin, err = queryFloat(c, "price_min"); err != nil {
		return service.PropertySearch{}, err
	}
	if s.PriceMax, err = queryFloat(c, "price_max"); err != nil {
		return service.PropertySearch{}, err
	}
	if raw := c.Query("min_capacity"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return service.PropertySearch{}, domain.NewValidationError("min_capacity", "must be an integer")
		}
		s.MinCapacity = &n
	}
	return s, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidationError(key, "must be true or false")
	}
	return &v, nil
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.NewValidationError(key, "must be a number")
	}
	return &v, nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
