package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog row. Name is the lowercase key the matcher works on.
type Product struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"size:128;uniqueIndex;not null"`
	DisplayName string `gorm:"size:128;not null"`
	Category    string `gorm:"size:64"`
}

// UnitConversion maps a unit onto a base unit
type UnitConversion struct {
	Unit       string          `gorm:"primaryKey;size:16"`
	Multiplier decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	BaseUnit   string          `gorm:"size:8;not null"`
}

// UnitSynonym maps a written unit onto its canonical code
type UnitSynonym struct {
	Synonym string `gorm:"primaryKey;size:32"`
	Unit    string `gorm:"size:16;not null"`
}

// User owns one inventory. IDs come from the chat platform.
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	FirstName string `gorm:"size:128"`
	CreatedAt time.Time
}

// UserProduct is one inventory record. A NULL quantity means an unknown amount.
type UserProduct struct {
	UserID    int64               `gorm:"primaryKey;autoIncrement:false"`
	ProductID int64               `gorm:"primaryKey;autoIncrement:false;index"`
	Quantity  decimal.NullDecimal `gorm:"type:numeric(14,4)"`
	Unit      *string             `gorm:"size:8"`
	AddedAt   time.Time           `gorm:"not null"`
	UpdatedAt time.Time
}

// Equipment is a kitchen tool users can own
type Equipment struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"size:128;uniqueIndex;not null"`
}

func (Equipment) TableName() string { return "equipment" }

// UserEquipment links a user to a tool they own
type UserEquipment struct {
	UserID      int64     `gorm:"primaryKey;autoIncrement:false"`
	EquipmentID int64     `gorm:"primaryKey;autoIncrement:false;index"`
	AddedAt     time.Time `gorm:"not null"`
}

func (UserEquipment) TableName() string { return "user_equipment" }

func allModels() []interface{} {
	return []interface{}{
		&Product{},
		&UnitConversion{},
		&UnitSynonym{},
		&User{},
		&UserProduct{},
		&Equipment{},
		&UserEquipment{},
	}
}
