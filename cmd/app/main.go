package main

import (
	"MeatSafe-Backend/cmd/config"
	migration "MeatSafe-Backend/cmd/database/migrate"
	"MeatSafe-Backend/internal/utils"
	"MeatSafe-Backend/pkg/record"
	"MeatSafe-Backend/pkg/reminder"
	"MeatSafe-Backend/pkg/user"
	"context"
	"log"
	"os"
	"time"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up application: %v", err)
	}

	reminderService := reminder.NewReminderService(
		record.NewRecordRepository(db),
		user.NewUserRepository(db),
	)
	go runReminderLoop(reminderService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func runReminderLoop(reminderService reminder.ReminderService) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := reminderService.SendExpiryReminders(ctx); err != nil {
			log.Printf("expiry reminder run failed: %v", err)
		}
		cancel()
	}
}
