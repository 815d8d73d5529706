package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Approval states for supplier-submitted products. Legacy documents may
// carry no approvalStatus at all; those are treated as publicly visible.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Who created a product. Admin-added products skip the approval workflow.
const (
	AddedByAdmin    = "admin"
	AddedBySupplier = "supplier"
)

type Product struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	Slug           string              `bson:"slug" json:"slug"`
	Category       string              `bson:"category" json:"category"`
	SubCategory    string              `bson:"subCategory,omitempty" json:"subCategory,omitempty"`
	Brand          string              `bson:"brand,omitempty" json:"brand,omitempty"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	Images         []string            `bson:"images,omitempty" json:"images,omitempty"`
	Price          float64             `bson:"price" json:"price"`
	DiscountPrice  float64             `bson:"discountPrice,omitempty" json:"discountPrice,omitempty"`
	CountInStock   int                 `bson:"countInStock" json:"countInStock"`
	Rating         float64             `bson:"rating" json:"rating"`
	NumReviews     int                 `bson:"numReviews" json:"numReviews"`
	IsFeatured     bool                `bson:"isFeatured" json:"isFeatured"`
	SupplierID     *primitive.ObjectID `bson:"supplierId,omitempty" json:"supplierId,omitempty"`
	ApprovalStatus string              `bson:"approvalStatus,omitempty" json:"approvalStatus,omitempty"`
	ApprovalNote   string              `bson:"approvalNote,omitempty" json:"approvalNote,omitempty"`
	AddedBy        string              `bson:"addedBy" json:"addedBy"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
