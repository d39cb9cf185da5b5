package device

import (
	"errors"

	"prompt-console/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the device ledger and admission gate.
type Handler struct {
	registry *Registry
	gate     *Gate
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(registry *Registry, gate *Gate, l *zap.Logger) *Handler {
	return &Handler{registry: registry, gate: gate, logger: l}
}

// RegisterRoutes registers the device routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/devices")
	group.Post("/admission", h.HandleAdmissionCheck)
	group.Post("/:id/logins", h.HandleLogin)
	group.Get("/:id", h.HandleGetDevice)
	group.Delete("/:id", h.HandleDeleteDevice)

	app.Get("/accounts/:id/devices", h.HandleListDevicesForAccount)
}

type admissionRequest struct {
	DeviceID  string `json:"deviceId"`
	AccountID string `json:"accountId"`
}

type loginRequest struct {
	Account struct {
		ID          string `json:"accountId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoUrl"`
	} `json:"account"`
	DeviceInfo map[string]any `json:"deviceInfo"`
}

// HandleAdmissionCheck runs the admission decision without mutating anything.
func (h *Handler) HandleAdmissionCheck(c *fiber.Ctx) error {
	var req admissionRequest
	if err := c.BodyParser(&req); err != nil || req.DeviceID == "" || req.AccountID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "deviceId and accountId are required"})
	}

	result := h.gate.CheckAdmission(c.Context(), req.DeviceID, req.AccountID)
	return c.JSON(result)
}

// HandleLogin is the login flow: admission check, then register. The two
// steps are separate store operations; see the package docs for the accepted
// race.
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	deviceID := c.Params("id")

	var req loginRequest
	if err := c.BodyParser(&req); err != nil || req.Account.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "account.accountId is required"})
	}

	result := h.gate.CheckAdmission(c.Context(), deviceID, req.Account.ID)
	if !result.Allowed {
		l.Info("Login denied by admission gate",
			zap.String("device_id", deviceID),
			zap.String("account_id", req.Account.ID),
			zap.Int("current_count", result.CurrentCount),
			zap.Int("max_limit", result.MaxLimit),
		)
		return c.Status(fiber.StatusForbidden).JSON(result)
	}

	acct := Account{
		ID:          req.Account.ID,
		Email:       req.Account.Email,
		DisplayName: req.Account.DisplayName,
		PhotoURL:    req.Account.PhotoURL,
	}
	if err := h.registry.RegisterLogin(c.Context(), deviceID, acct, req.DeviceInfo); err != nil {
		l.Error("Failed to register login", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}

// HandleGetDevice returns one device ledger.
func (h *Handler) HandleGetDevice(c *fiber.Ctx) error {
	d, err := h.registry.GetDevice(c.Context(), c.Params("id"))
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to read device", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if d == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "device not found"})
	}
	return c.JSON(d)
}

// HandleDeleteDevice removes a device ledger (explicit admin action).
func (h *Handler) HandleDeleteDevice(c *fiber.Ctx) error {
	if err := h.registry.DeleteDevice(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "device not found"})
		}
		logger.WithRayID(h.logger, c).Error("Failed to delete device", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// HandleListDevicesForAccount lists every device an account is registered on.
func (h *Handler) HandleListDevicesForAccount(c *fiber.Ctx) error {
	devices, err := h.registry.ListDevicesForAccount(c.Context(), c.Params("id"))
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to list devices", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if devices == nil {
		devices = []*Device{}
	}
	return c.JSON(fiber.Map{"devices": devices, "count": len(devices)})
}
