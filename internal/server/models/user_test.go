package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Remaining(t *testing.T) {
	u := &User{StorageUsed: 10, StorageLimit: 25}
	assert.EqualValues(t, 15, u.Remaining())

	u.StorageUsed = 30
	assert.EqualValues(t, 0, u.Remaining())
}
