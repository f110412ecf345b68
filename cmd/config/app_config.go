package config

import (
	"MeatSafe-Backend/domain"
	"MeatSafe-Backend/internal/api/handlers"
	"MeatSafe-Backend/internal/api/routes"
	"MeatSafe-Backend/internal/middleware"
	"MeatSafe-Backend/internal/utils"
	"MeatSafe-Backend/internal/utils/storage"
	"MeatSafe-Backend/pkg/jwt"
	"MeatSafe-Backend/pkg/midtrans"
	"MeatSafe-Backend/pkg/oracle"
	"MeatSafe-Backend/pkg/record"
	"MeatSafe-Backend/pkg/scan"
	"MeatSafe-Backend/pkg/user"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	midtransRepository := midtrans.NewMidtransRepository(db)
	recordRepository := record.NewRecordRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	midtransService := midtrans.NewMidtransService(
		midtransRepository,
		userRepository,
	)
	recordService := record.NewRecordService(recordRepository, untrackedMeatTypes())
	verdictOracle := oracle.NewGeminiOracle()
	scanService := scan.NewScanService(verdictOracle, recordService, s3)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	midtransHandler := handlers.NewMidtransHandler(midtransService, validator)
	scanHandler := handlers.NewScanHandler(scanService, userService, validator)
	recordHandler := handlers.NewRecordHandler(recordService, validator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		ScanHandler:     scanHandler,
		RecordHandler:   recordHandler,
		MidtransHandler: midtransHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

func untrackedMeatTypes() []domain.MeatType {
	raw := utils.GetConfig("UNTRACKED_MEAT_TYPES")
	if raw == "" {
		raw = "beef,chicken"
	}

	var types []domain.MeatType
	for _, part := range strings.Split(raw, ",") {
		t, err := domain.ParseMeatType(strings.TrimSpace(part))
		if err != nil {
			log.Warnf("skipping unknown untracked meat type %q", part)
			continue
		}
		types = append(types, t)
	}
	return types
}
