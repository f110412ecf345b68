package migration

import (
	"MeatSafe-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Transaction{}); err != nil {
		log.Fatalf("Error migrating transaction database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.MeatRecord{}); err != nil {
		log.Fatalf("Error migrating meat record database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
