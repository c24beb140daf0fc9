package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/service"
)

type registerRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Role     domain.Role `json:"user_type"`
}

func (a *API) registerUser(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := a.auth.Register(c.Request.Context(), req.Email, req.Password, req.FullName, req.Role)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newUserView(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := a.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, User: newUserView(res.User)})
}

func (a *API) me(c *gin.Context) {
	user, err := a.auth.GetUser(c.Request.Context(), principal(c).UserID)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user))
}

type profileRequest struct {
	FullName     *string `json:"full_name"`
	Phone        *string `json:"phone"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
}

func (a *API) updateProfile(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := a.auth.UpdateProfile(c.Request.Context(), principal(c).UserID, service.ProfileUpdate{
		FullName:     req.FullName,
		Phone:        req.Phone,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	})
	respondUser(c, a, user, err)
}

func (a *API) updateRole(c *gin.Context) {
	var req struct {
		Role domain.Role `json:"user_type"`
	}
	if !bindJSON(c, &req) {
		return
	}
	user, err := a.auth.UpdateRole(c.Request.Context(), principal(c).UserID, req.Role)
	respondUser(c, a, user, err)
}

func (a *API) createWallet(c *gin.Context) {
	user, err := a.auth.CreateWallet(c.Request.Context(), principal(c).UserID)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newUserView(user))
}

func (a *API) walletBalance(c *gin.Context) {
	addr, balance, err := a.auth.WalletBalance(c.Request.Context(), principal(c).UserID)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, walletResponse{Address: addr, Balance: balance})
}

func (a *API) updateWallet(c *gin.Context) {
	var req struct {
		Address string `json:"wallet_address"`
	}
	if !bindJSON(c, &req) {
		return
	}
	user, err := a.auth.UpdateWallet(c.Request.Context(), principal(c).UserID, req.Address)
	respondUser(c, a, user, err)
}

func (a *API) transfer(c *gin.Context) {
	var req struct {
		To     string  `json:"to"`
		Amount float64 `json:"amount"`
	}
	if !bindJSON(c, &req) {
		return
	}
	receipt, err := a.payments.Transfer(c.Request.Context(), principal(c).UserID, req.To, req.Amount)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, receiptResponse{TxHash: receipt.TxHash})
}

func (a *API) submitKYC(c *gin.Context) {
	user, err := a.auth.SubmitKYC(c.Request.Context(), principal(c).UserID)
	respondUser(c, a, user, err)
}

// uploadKYCDocument accepts a multipart form with a "document" file and a
// "type" field.
func (a *API) uploadKYCDocument(c *gin.Context) {
	header, err := c.FormFile("document")
	if err != nil {
		writeError(c, http.StatusBadRequest, "document file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	defer file.Close()

	user, err := a.auth.StoreKYCDocument(c.Request.Context(), principal(c).UserID, c.PostForm("type"), header.Filename, file)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newUserView(user))
}

func respondUser(c *gin.Context, a *API, user domain.User, err error) {
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user))
}

// bindJSON decodes the request body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
