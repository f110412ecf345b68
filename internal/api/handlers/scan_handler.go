package handlers

import (
	"MeatSafe-Backend/domain"
	"MeatSafe-Backend/internal/api/presenters"
	"MeatSafe-Backend/pkg/scan"
	"MeatSafe-Backend/pkg/user"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ScanHandler interface {
		StartScan(c *fiber.Ctx) error
		RefineScan(c *fiber.Ctx) error
		ResetScan(c *fiber.Ctx) error
	}

	scanHandler struct {
		scanService scan.ScanService
		userService user.UserService
		validator   *validator.Validate
	}
)

func NewScanHandler(scanService scan.ScanService, userService user.UserService, validator *validator.Validate) ScanHandler {
	return &scanHandler{
		scanService: scanService,
		userService: userService,
		validator:   validator,
	}
}

func (h *scanHandler) StartScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	image, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req := domain.StartScanRequest{Image: image}
	pro := h.userService.IsPremium(c.Context(), userID)

	res, err := h.scanService.Start(c.Context(), req, userID, pro)
	if err != nil {
		if errors.Is(err, domain.ErrStaleScanResult) {
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedStartScan, err)
		}
		if errors.Is(err, domain.ErrClassificationFailed) {
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedStartScan, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedStartScan, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessStartScan)
}

func (h *scanHandler) RefineScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RefineScanRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRefineScan, err)
	}

	pro := h.userService.IsPremium(c.Context(), userID)

	res, err := h.scanService.Refine(c.Context(), *req, userID, pro)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNoActiveScan):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRefineScan, err)
		case errors.Is(err, domain.ErrScanInProgress):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedRefineScan, err)
		case errors.Is(err, domain.ErrRefinementFailed):
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedRefineScan, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRefineScan, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRefineScan)
}

func (h *scanHandler) ResetScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ResetScanRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedResetScan, err)
	}

	if err := h.scanService.Reset(c.Context(), *req, userID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedResetScan, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedResetScan, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessResetScan)
}
