package models

import "time"

// CartSnapshot stores the serialized cart for one namespace.
type CartSnapshot struct {
	Namespace string    `gorm:"column:namespace;primaryKey;size:255"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	Version   int       `gorm:"column:version;not null;default:0"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}
