package model

import (
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryAdvance(t *testing.T) {
	now := time.Now()
	d := &Delivery{State: DeliveryPending}

	require.NoError(t, d.Advance("staff-1", now))
	assert.Equal(t, DeliveryInTransit, d.State)
	assert.Nil(t, d.DeliveredAt)
	assert.Equal(t, "staff-1", *d.DeliveredBy)

	require.NoError(t, d.Advance("staff-2", now))
	assert.Equal(t, DeliveryDelivered, d.State)
	require.NotNil(t, d.DeliveredAt)
	assert.Equal(t, "staff-2", *d.DeliveredBy)

	err := d.Advance("staff-1", now)
	var ise *apperror.InvalidStateError
	assert.True(t, errors.As(err, &ise))
	assert.Equal(t, DeliveryDelivered, d.State)
	assert.Equal(t, "staff-2", *d.DeliveredBy)
}

func TestAlertResolve(t *testing.T) {
	a := &Alert{Status: AlertOpen}
	require.NoError(t, a.Resolve(time.Now()))
	assert.Equal(t, AlertTreated, a.Status)
	assert.NotNil(t, a.TraitedAt)
	assert.Error(t, a.Resolve(time.Now()))
}
