package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCustomer = "customer"
	RoleSupplier = "supplier"
	RoleAdmin    = "admin"
)

// Address represents a single address entry for a user.
type Address struct {
	ID         string `bson:"id" json:"id"`
	Title      string `bson:"title" json:"title"`
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	Country    string `bson:"country" json:"country"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	IsDefault  bool   `bson:"isDefault" json:"isDefault"`
}

// User represents the application user account.
// Invariant: Role == RoleSupplier exactly when SupplierID is set, and
// admins never hold a supplier profile.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email        string              `bson:"email" json:"email"`
	PasswordHash string              `bson:"passwordHash" json:"-"`
	Name         string              `bson:"name" json:"name"`
	IsAdmin      bool                `bson:"isAdmin" json:"isAdmin"`
	Role         string              `bson:"role" json:"role"`
	SupplierID   *primitive.ObjectID `bson:"supplierId,omitempty" json:"supplierId,omitempty"`
	Addresses    []Address           `bson:"addresses" json:"addresses"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}
