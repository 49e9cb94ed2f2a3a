package handlers

import (
	"log/slog"
	"net/http"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/inquiry"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/search"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InquiryController struct {
	service *inquiry.Service
	log     *slog.Logger
}

func NewInquiryController(service *inquiry.Service, log *slog.Logger) *InquiryController {
	return &InquiryController{service: service, log: log}
}

// CreateInquiry handles POST /inquiries.
func (ic *InquiryController) CreateInquiry(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	var req inquiry.CreateRequest
	if err := c.Bind(&req); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return utils.Fail(c, err)
	}

	inq, err := ic.service.Create(c.Request().Context(), userID, req)
	if err != nil {
		if apperr.Status(err) == http.StatusInternalServerError {
			ic.log.Error("inquiry create failed", "error", err)
		}
		return utils.Fail(c, err)
	}
	return utils.OKMessage(c, http.StatusCreated, "Inquiry sent successfully", map[string]any{"inquiry": inq})
}

// SentInquiries handles GET /inquiries/sent.
func (ic *InquiryController) SentInquiries(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)
	page := search.ParsePage(c.QueryParam("page"), c.QueryParam("limit"), search.DefaultUserLimit)

	result, err := ic.service.Sent(c.Request().Context(), userID, page)
	if err != nil {
		ic.log.Error("sent inquiries fetch failed", "error", err)
		return utils.Fail(c, err)
	}
	return utils.OK(c, http.StatusOK, result)
}

// ReceivedInquiries handles GET /inquiries/received with optional status
// and type filters.
func (ic *InquiryController) ReceivedInquiries(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)
	page := search.ParsePage(c.QueryParam("page"), c.QueryParam("limit"), search.DefaultUserLimit)

	result, err := ic.service.Received(c.Request().Context(), userID,
		c.QueryParam("status"), c.QueryParam("type"), page)
	if err != nil {
		if apperr.Status(err) == http.StatusInternalServerError {
			ic.log.Error("received inquiries fetch failed", "error", err)
		}
		return utils.Fail(c, err)
	}
	return utils.OK(c, http.StatusOK, result)
}

type respondRequest struct {
	Message string `json:"message" validate:"required"`
}

// RespondToInquiry handles PUT /inquiries/:id/respond.
func (ic *InquiryController) RespondToInquiry(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return utils.Fail(c, apperr.NotFound("Inquiry not found"))
	}

	var req respondRequest
	if err := c.Bind(&req); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}

	inq, err := ic.service.Respond(c.Request().Context(), userID, id, req.Message)
	if err != nil {
		if apperr.Status(err) == http.StatusInternalServerError {
			ic.log.Error("inquiry respond failed", "inquiry", id.Hex(), "error", err)
		}
		return utils.Fail(c, err)
	}
	return utils.OKMessage(c, http.StatusOK, "Response sent successfully", map[string]any{"inquiry": inq})
}

// ScheduleMeeting handles PUT /inquiries/:id/schedule.
func (ic *InquiryController) ScheduleMeeting(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return utils.Fail(c, apperr.NotFound("Inquiry not found"))
	}

	var req inquiry.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return utils.Fail(c, err)
	}

	inq, err := ic.service.Schedule(c.Request().Context(), userID, id, req)
	if err != nil {
		if apperr.Status(err) == http.StatusInternalServerError {
			ic.log.Error("inquiry schedule failed", "inquiry", id.Hex(), "error", err)
		}
		return utils.Fail(c, err)
	}
	return utils.OKMessage(c, http.StatusOK, "Meeting scheduled successfully", map[string]any{"inquiry": inq})
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateInquiryStatus handles PUT /inquiries/:id/status, the unguarded
// transition within the enumerated status set.
func (ic *InquiryController) UpdateInquiryStatus(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return utils.Fail(c, apperr.NotFound("Inquiry not found"))
	}

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}

	inq, err := ic.service.UpdateStatus(c.Request().Context(), userID, id, req.Status)
	if err != nil {
		if apperr.Status(err) == http.StatusInternalServerError {
			ic.log.Error("inquiry status update failed", "inquiry", id.Hex(), "error", err)
		}
		return utils.Fail(c, err)
	}
	return utils.OKMessage(c, http.StatusOK, "Inquiry status updated successfully", map[string]any{"inquiry": inq})
}
