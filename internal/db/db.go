package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/CijeTheCreator/consultify/internal/chat"
	"github.com/CijeTheCreator/consultify/internal/consultation"
	"github.com/CijeTheCreator/consultify/internal/directory"
	"github.com/CijeTheCreator/consultify/internal/prescription"
)

// Connect opens the MySQL handle and migrates the schema. Fatal on failure:
// nothing in either binary can run without the store.
func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	return gdb
}

// Migrate applies the schema for every model. Shared with tests, which run
// it against in-memory sqlite.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&directory.User{},
		&consultation.Consultation{},
		&chat.Message{},
		&chat.MessageRead{},
		&chat.TypingIndicator{},
		&prescription.Prescription{},
	)
}
