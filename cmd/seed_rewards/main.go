// Seeds the loyalty rewards catalog. Safe to re-run: existing titles are
// left untouched.
package main

import (
	"log"

	"falko/internal/config"
	"falko/internal/models"
	"falko/internal/repositories"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

var seed = []models.Reward{
	{
		Title:          "50 PLN Zniżka",
		Description:    "Zniżka 50 PLN na następne zakupy",
		PointsCost:     500,
		Category:       models.RewardCategoryDiscount,
		DiscountAmount: int64Ptr(5000),
		IsActive:       true,
	},
	{
		Title:       "Darmowa dostawa",
		Description: "Bezpłatna dostawa na następne zamówienie",
		PointsCost:  300,
		Category:    models.RewardCategoryShipping,
		IsActive:    true,
	},
	{
		Title:           "15% Zniżka Premium",
		Description:     "15% zniżki na całe zamówienie",
		PointsCost:      1000,
		Category:        models.RewardCategoryDiscount,
		DiscountPercent: intPtr(15),
		IsActive:        true,
	},
	{
		Title:       "Wczesny dostęp do nowości",
		Description: "Dostęp do nowych kolekcji przed oficjalną premierą",
		PointsCost:  3000,
		Category:    models.RewardCategoryAccess,
		IsActive:    true,
	},
}

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("Failed to get SQL DB instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	log.Println("Seeding rewards...")
	created := 0
	for _, reward := range seed {
		var existing models.Reward
		result := repositories.DB.Where("title = ?", reward.Title).First(&existing)
		if result.Error == nil {
			log.Printf("Reward %q already exists, skipping", reward.Title)
			continue
		}
		if err := repositories.DB.Create(&reward).Error; err != nil {
			log.Fatalf("Failed to create reward %q: %v", reward.Title, err)
		}
		created++
	}

	var total int64
	repositories.DB.Model(&models.Reward{}).Count(&total)
	log.Printf("Done. Created %d rewards, catalog size %d", created, total)
}
