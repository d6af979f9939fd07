package nftauction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusOpen, StatusOf(1000, 1300, false))
	assert.Equal(t, StatusOpen, StatusOf(1299, 1300, false))
	assert.Equal(t, StatusExpired, StatusOf(1300, 1300, false))
	assert.Equal(t, StatusExpired, StatusOf(1301, 1300, false))
	assert.Equal(t, StatusSettled, StatusOf(1301, 1300, true))
	assert.Equal(t, StatusSettled, StatusOf(1000, 1300, true))

	assert.Equal(t, "open", StatusOpen.String())
	assert.Equal(t, "expired", StatusExpired.String())
	assert.Equal(t, "settled", StatusSettled.String())
	assert.Equal(t, "unknown", Status(9).String())
}
