package db

import (
	"log"
	"os"
	"soular/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=soular port=5432 sslmode=disable TimeZone=Asia/Jakarta"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Film{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed initial catalog
	seedFilms()
}

func seedFilms() {
	var count int64
	DB.Model(&models.Film{}).Count(&count)
	if count > 0 {
		log.Println("Films already seeded, skipping")
		return
	}

	films := []models.Film{
		{Fid: "siti2014", Title: "Siti", Director: "Eddie Cahyono", Year: 2014, Synopsis: "A single mother in Yogyakarta juggles two jobs to keep her family afloat."},
		{Fid: "turahfilm", Title: "Turah", Director: "Wicaksono Wisnu Legowo", Year: 2016, Synopsis: "Life on the margins in a Tegal stilt village."},
		{Fid: "ziarah201", Title: "Ziarah", Director: "B.W. Purba Negara", Year: 2016, Synopsis: "An elderly widow walks across Java searching for her husband's grave."},
		{Fid: "prenjak17", Title: "Prenjak", Director: "Wregas Bhanuteja", Year: 2016, Synopsis: "A woman sells matches with an unusual offer.", IsPremium: true},
	}

	for _, film := range films {
		if err := DB.Create(&film).Error; err != nil {
			log.Printf("Failed to create film %s: %v", film.Title, err)
		}
	}
	log.Println("Initial films created successfully")
}
