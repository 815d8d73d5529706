package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Supplier account states. Only approved suppliers appear on public
// storefront pages; their products go through the approval workflow
// regardless of status.
const (
	SupplierPending   = "pending"
	SupplierApproved  = "approved"
	SupplierRejected  = "rejected"
	SupplierSuspended = "suspended"
)

// DefaultCommissionRate is the platform cut (percent) applied to new
// suppliers unless an admin overrides it.
const DefaultCommissionRate = 15.0

type SupplierAddress struct {
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	Country    string `bson:"country" json:"country"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
}

type Supplier struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	BusinessName   string             `bson:"businessName" json:"businessName"`
	Slug           string             `bson:"slug" json:"slug"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Address        SupplierAddress    `bson:"address" json:"address"`
	Status         string             `bson:"status" json:"status"`
	StatusNote     string             `bson:"statusNote,omitempty" json:"statusNote,omitempty"`
	CommissionRate float64            `bson:"commissionRate" json:"commissionRate"`
	TotalProducts  int                `bson:"totalProducts" json:"totalProducts"`
	TotalSales     float64            `bson:"totalSales" json:"totalSales"`
	Rating         float64            `bson:"rating" json:"rating"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
