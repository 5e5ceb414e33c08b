package main

import (
	"fmt"
	"log"
	"time"

	cfg "golang-chat-blast/internal/config"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// batchRecord mirrors the row shape written by the postgres history recorder.
// Context and Results are stored as JSONB.
type batchRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Label     string    `gorm:"index"`
	Sender    string
	Template  string
	Context   []byte `gorm:"type:jsonb"`
	Results   []byte `gorm:"type:jsonb"`
	Total     int
	CreatedAt time.Time `gorm:"index"`
}

func (batchRecord) TableName() string { return "batch_records" }

func main() {
	conf := cfg.FromEnv()
	if conf.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for migration")
	}

	fmt.Println("Connecting to database...")

	db, err := gorm.Open(postgres.Open(conf.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}

	sqlDB, _ := db.DB()
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	fmt.Println("Running migrations...")

	if err := db.AutoMigrate(&batchRecord{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	var tables []string
	db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables)

	fmt.Println("Tables present:")
	for _, table := range tables {
		fmt.Printf("  - %s\n", table)
	}

	fmt.Println("Database ready.")
}
