package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelFor(t *testing.T) {
	assert.Equal(t, "hms.appointment.booked", ChannelFor("appointment.booked"))
}
