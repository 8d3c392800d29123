package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnerScope returns a GORM scope that limits a query to one account's ledgers.
// A nil owner matches nothing so a missing account never widens a query.
func OwnerScope(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("owner_id = ?", ownerID)
	}
}

var ledgerSortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"total_amount": "total_amount",
	"due_amount":   "due_amount",
	"bill_no":      "bill_no",
	"guest_name":   "guest_name",
}

// SortScope orders by a whitelisted column, newest first by default
func SortScope(sortBy, sortOrder string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column, ok := ledgerSortColumns[sortBy]
		if !ok {
			column = "created_at"
		}
		order := "DESC"
		if sortOrder == "ASC" || sortOrder == "asc" {
			order = "ASC"
		}
		return db.Order(column + " " + order)
	}
}
