package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"     bson:"_id"           json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"            bson:"username"      json:"username"`
	PasswordHash string    `gorm:"not null"                        bson:"password_hash" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false"          bson:"is_admin"      json:"isAdmin"`
	CreatedAt    time.Time `gorm:"index"                           bson:"created_at"    json:"-"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" bson:"_id"        json:"id"`
	Name      string    `gorm:"not null;index"              bson:"name"       json:"name"`
	Price     float64   `gorm:"not null;index"              bson:"price"      json:"price"`
	Formula   string    `gorm:"not null"                    bson:"formula"    json:"formula"`
	CreatedAt time.Time `gorm:"index"                       bson:"created_at" json:"-"`
}

func (Product) TableName() string { return "medicines" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type CartItem struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"       bson:"_id"        json:"id"`
	UserID    string    `gorm:"index;not null;type:varchar(36)"   bson:"user_id"    json:"user_id"`
	ProductID string    `gorm:"not null;type:varchar(36)"         bson:"product_id" json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity>0"         bson:"quantity"   json:"quantity"`
	CreatedAt time.Time `gorm:"index"                             bson:"created_at" json:"-"`
}

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CartLine is a cart item with its product resolved. Product is nil when the
// product was deleted after the item was added.
type CartLine struct {
	ID       string   `bson:"_id"      json:"id"`
	UserID   string   `bson:"user_id"  json:"user_id"`
	Quantity int      `bson:"quantity" json:"quantity"`
	Product  *Product `bson:"product"  json:"product"`
}
