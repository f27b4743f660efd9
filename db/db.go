package db

import (
	"Gin_postgres_redis_mr_tool/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	err = Migrate(DB)
	if err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Personnel{},
		&models.MaterialType{},
		&models.Material{},
		&models.Requisition{},
		&models.RequisitionItem{},
	); err != nil {
		return err
	}

	// 列表页按状态+日期过滤最多
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_status_form_date
	  ON %s (status, form_date DESC);
	`, models.MRFormTable, models.MRFormTable)).Error; err != nil {
		return err
	}

	// 行项按表单取，级联删除也走这条
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_mr_form_id
	  ON %s (mr_form_id);
	`, models.MRFormMaterialTable, models.MRFormMaterialTable)).Error; err != nil {
		return err
	}

	return nil
}
