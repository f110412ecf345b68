package routes

import (
	"MeatSafe-Backend/internal/api/handlers"
	"MeatSafe-Backend/internal/middleware"
	"MeatSafe-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	ScanHandler     handlers.ScanHandler
	RecordHandler   handlers.RecordHandler
	MidtransHandler handlers.MidtransHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Scan()
	c.Records()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Post("/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.MidtransHandler.CreateTransaction)
	}
}

func (c *Config) Scan() {
	scan := c.App.Group("/api/v1/scan", c.Middleware.AuthMiddleware(c.JWTService))
	{
		scan.Post("", c.ScanHandler.StartScan)
		scan.Post("/refine", c.ScanHandler.RefineScan)
		scan.Post("/reset", c.ScanHandler.ResetScan)
	}
}

func (c *Config) Records() {
	records := c.App.Group("/api/v1/records", c.Middleware.AuthMiddleware(c.JWTService))
	records.Get("/dashboard", c.RecordHandler.GetDashboardStats)

	records.Get("", c.RecordHandler.GetRecords)
	records.Get("/:id", c.RecordHandler.GetRecordDetails)
	records.Patch("/:id/storage", c.RecordHandler.UpdateStorageConfig)
	records.Patch("/:id/status", c.RecordHandler.SetStatus)
	records.Delete("/:id", c.RecordHandler.DeleteRecord)
	records.Delete("", c.RecordHandler.ClearRecords)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.MidtransHandler.MidtransWebhookHandler)
}
