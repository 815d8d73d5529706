package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The update and delete paths must only match the user document while
// it still contains the target address; a bare _id match would report
// success for unknown address ids.
func TestUserAddressFilterScopesToAddress(t *testing.T) {
	userID := primitive.NewObjectID()

	filter := userAddressFilter(userID, "addr-1")

	assert.Equal(t, bson.M{"_id": userID, "addresses.id": "addr-1"}, filter)
}
