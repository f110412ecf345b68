package handlers

import (
	"MeatSafe-Backend/domain"
	"MeatSafe-Backend/internal/api/presenters"
	"MeatSafe-Backend/pkg/record"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecordHandler interface {
		GetRecords(c *fiber.Ctx) error
		GetRecordDetails(c *fiber.Ctx) error
		UpdateStorageConfig(c *fiber.Ctx) error
		SetStatus(c *fiber.Ctx) error
		DeleteRecord(c *fiber.Ctx) error
		ClearRecords(c *fiber.Ctx) error
		GetDashboardStats(c *fiber.Ctx) error
	}

	recordHandler struct {
		recordService record.RecordService
		validator     *validator.Validate
	}
)

func NewRecordHandler(recordService record.RecordService, validator *validator.Validate) RecordHandler {
	return &recordHandler{
		recordService: recordService,
		validator:     validator,
	}
}

func (h *recordHandler) GetRecords(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	status := c.Query("status", "all")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	items, count, err := h.recordService.GetRecords(c.Context(), userID, status, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecords, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"records": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetRecords)
}

func (h *recordHandler) GetRecordDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recordID := c.Params("id")

	res, err := h.recordService.GetRecordByID(c.Context(), recordID, userID)
	if err != nil {
		return recordErrorResponse(c, domain.MessageFailedGetRecords, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecords)
}

func (h *recordHandler) UpdateStorageConfig(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recordID := c.Params("id")
	req := new(domain.UpdateStorageConfigRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateStorage, err)
	}

	res, err := h.recordService.UpdateStorageConfig(c.Context(), recordID, userID, *req)
	if err != nil {
		return recordErrorResponse(c, domain.MessageFailedUpdateStorage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateStorage)
}

func (h *recordHandler) SetStatus(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recordID := c.Params("id")
	req := new(domain.SetStatusRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSetStatus, err)
	}

	status, err := domain.ParseRecordStatus(req.Status)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSetStatus, err)
	}

	if err := h.recordService.SetStatus(c.Context(), recordID, userID, status); err != nil {
		return recordErrorResponse(c, domain.MessageFailedSetStatus, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessSetStatus)
}

func (h *recordHandler) DeleteRecord(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recordID := c.Params("id")

	if err := h.recordService.Delete(c.Context(), recordID, userID); err != nil {
		return recordErrorResponse(c, domain.MessageFailedDeleteRecord, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecord)
}

func (h *recordHandler) ClearRecords(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.recordService.ClearAll(c.Context(), userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedClearRecords, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessClearRecords)
}

func (h *recordHandler) GetDashboardStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recordService.GetDashboardStats(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDashboard, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}

func recordErrorResponse(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return presenters.ErrorResponse(c, fiber.StatusNotFound, message, err)
	case errors.Is(err, domain.ErrUnauthorizedAccess):
		return presenters.ErrorResponse(c, fiber.StatusForbidden, message, err)
	default:
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	}
}
