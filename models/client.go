package models

import "time"

// Client is a CRM contact record.
type Client struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone" json:"phone"`
	Email     string    `bson:"email" json:"email,omitempty"`
	Company   string    `bson:"company" json:"company,omitempty"`
	Notes     string    `bson:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
