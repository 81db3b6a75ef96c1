package mysql

import (
	"order-desk/internal/config"
	"order-desk/internal/domain"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func NewMySQL(cfg config.MySQL) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Product{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Payment{},
	)
}
