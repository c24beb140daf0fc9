package server

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/service"
)

// maxFrameBytes caps an uploaded verification frame.
const maxFrameBytes = 10 << 20

// uploadedFrame serves one frame received over HTTP.
type uploadedFrame []byte

func (f uploadedFrame) CaptureFrame(context.Context) ([]byte, error) { return f, nil }

// startVerification opens a session. Without renter_id the caller is the
// renter; with it the caller must own the property.
func (a *API) startVerification(c *gin.Context) {
	var req struct {
		PropertyID string `json:"property_id"`
		RenterID   string `json:"renter_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	caller := principal(c).UserID
	ownerID, renterID := "", caller
	if req.RenterID != "" {
		ownerID, renterID = caller, req.RenterID
	}
	session, err := a.verification.Start(c.Request.Context(), req.PropertyID, ownerID, renterID)
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (a *API) getVerification(c *gin.Context) {
	session, ok := a.participantSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session)
}

func (a *API) activateVerification(c *gin.Context) {
	if _, ok := a.participantSession(c); !ok {
		return
	}
	session, err := a.verification.Activate(c.Request.Context(), c.Param("id"))
	respondSession(c, a, session, err)
}

// captureVerificationImage stores the multipart "frame" file as a captured
// image of the session.
func (a *API) captureVerificationImage(c *gin.Context) {
	if _, ok := a.participantSession(c); !ok {
		return
	}
	header, err := c.FormFile("frame")
	if err != nil {
		writeError(c, http.StatusBadRequest, "frame file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	defer file.Close()
	frame, err := io.ReadAll(io.LimitReader(file, maxFrameBytes))
	if err != nil {
		fail(c, a.logger, err)
		return
	}

	session, err := a.verification.Capture(c.Request.Context(), c.Param("id"), uploadedFrame(frame))
	respondSession(c, a, session, err)
}

func (a *API) completeVerification(c *gin.Context) {
	if _, ok := a.participantSession(c); !ok {
		return
	}
	var req struct {
		Verified bool `json:"verified"`
	}
	if !bindJSON(c, &req) {
		return
	}
	session, err := a.verification.Complete(c.Request.Context(), c.Param("id"), req.Verified)
	respondSession(c, a, session, err)
}

func (a *API) evaluateVerification(c *gin.Context) {
	if _, ok := a.participantSession(c); !ok {
		return
	}
	var req struct {
		Threshold float64 `json:"threshold"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	session, err := a.verification.Evaluate(c.Request.Context(), c.Param("id"), req.Threshold)
	respondSession(c, a, session, err)
}

func (a *API) cancelVerification(c *gin.Context) {
	if _, ok := a.participantSession(c); !ok {
		return
	}
	session, err := a.verification.Cancel(c.Request.Context(), c.Param("id"))
	respondSession(c, a, session, err)
}

// participantSession loads the session in the path and checks the caller
// takes part in it.
func (a *API) participantSession(c *gin.Context) (domain.VerificationSession, bool) {
	session, err := a.verification.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, a.logger, err)
		return domain.VerificationSession{}, false
	}
	caller := principal(c).UserID
	if caller != session.OwnerID && caller != session.RenterID {
		fail(c, a.logger, service.ErrForbidden)
		return domain.VerificationSession{}, false
	}
	return session, true
}

func respondSession(c *gin.Context, a *API, session domain.VerificationSession, err error) {
	if err != nil {
		fail(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
