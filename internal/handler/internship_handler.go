package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/response"
	"github.com/quizdesk/quizdesk-backend/internal/service"
	"github.com/quizdesk/quizdesk-backend/internal/validator"
)

// InternshipHandler handles the public offer acceptance flow and the
// admin-facing campaign endpoints.
type InternshipHandler struct {
	internshipService *service.InternshipService
	campaignService   *service.CampaignService
}

// NewInternshipHandler creates a new InternshipHandler.
func NewInternshipHandler(internshipService *service.InternshipService, campaignService *service.CampaignService) *InternshipHandler {
	return &InternshipHandler{internshipService: internshipService, campaignService: campaignService}
}

// VerifyToken godoc
// GET /api/v1/internship/verify/:token
// Resolves an offer token: 404 unknown, 410 expired, 409 already accepted.
func (h *InternshipHandler) VerifyToken(c *gin.Context) {
	token := c.Param("token")
	if _, err := uuid.Parse(token); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	verification, err := h.internshipService.VerifyToken(c.Request.Context(), token)
	if err != nil {
		failOfferError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"offer": verification.Offer,
		"student": gin.H{
			"name":  verification.Student.Name,
			"email": verification.Student.Email,
			"phone": verification.Student.Phone,
		},
	})
}

// AcceptOffer godoc
// POST /api/v1/internship/accept
// Finalizes an offer with the student's submitted details.
func (h *InternshipHandler) AcceptOffer(c *gin.Context) {
	var req model.AcceptOfferRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	acceptance, err := h.internshipService.Accept(c.Request.Context(), &req)
	if err != nil {
		failOfferError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"acceptance": acceptance})
}

// CreateCampaign godoc
// POST /api/v1/admin/campaigns
// Issues one offer per student and queues the offer emails.
func (h *InternshipHandler) CreateCampaign(c *gin.Context) {
	var req model.CreateCampaignRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"campaign": campaign})
}

// ListCampaigns godoc
// GET /api/v1/admin/campaigns
// Lists campaigns newest first.
func (h *InternshipHandler) ListCampaigns(c *gin.Context) {
	page, perPage := parsePageQuery(c)

	campaigns, total, err := h.campaignService.List(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"campaigns": campaigns}, buildPagination(page, perPage, total))
}

// GetCampaign godoc
// GET /api/v1/admin/campaigns/:campaign_id
// Returns a campaign with its offers.
func (h *InternshipHandler) GetCampaign(c *gin.Context) {
	campaignID, err := uuid.Parse(c.Param("campaign_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	campaign, offers, err := h.campaignService.Get(c.Request.Context(), campaignID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"campaign": campaign,
		"offers":   offers,
	})
}

func failOfferError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrOfferExpired):
		response.Fail(c, http.StatusGone, response.ErrOfferExpired)
	case errors.Is(err, service.ErrOfferAccepted):
		response.Fail(c, http.StatusConflict, response.ErrOfferAccepted)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
