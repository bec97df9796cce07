package models

import (
	"log"

	"github.com/mmrentals/rentdesk_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Building{}, &Room{},
		&Tenant{}, &Contract{}, &ContractTenant{}, &ServiceFee{},
		&UtilityReading{}, &Invoice{}, &Payment{},
		&Incident{},
		&Notification{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
