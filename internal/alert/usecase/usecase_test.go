package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-backoffice-service/internal/alert/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/internal/memstore"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct{ keys []string }

func (p *recordingPublisher) Publish(ctx context.Context, eventID, eventType, key string, payload interface{}) error {
	p.keys = append(p.keys, eventType+":"+key)
	return nil
}

func TestAlertLifecycle(t *testing.T) {
	s := memstore.New()
	pub := &recordingPublisher{}
	uc := NewAlertUseCase(s.Alerts(), s, pub, logger.NewNop())
	ctx := auth.WithStaffID(context.Background(), "staff-3")

	a, err := uc.CreateAlert(ctx, &dto.CreateAlertInput{Type: " stock ", Details: "p1 is running low"})
	require.NoError(t, err)
	assert.Equal(t, model.AlertOpen, a.Status)
	assert.Equal(t, "stock", a.Type)
	require.NotNil(t, a.UserID)
	assert.Equal(t, "staff-3", *a.UserID)
	assert.Equal(t, []string{"AlertRaised:" + a.ID}, pub.keys)

	open, total, err := uc.ListAlerts(ctx, &dto.AlertFilters{Status: model.AlertOpen})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, a.ID, open[0].ID)

	resolved, err := uc.ResolveAlert(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AlertTreated, resolved.Status)
	require.NotNil(t, resolved.TraitedAt)

	_, err = uc.ResolveAlert(ctx, a.ID)
	var serr *apperror.InvalidStateError
	require.ErrorAs(t, err, &serr)

	require.NoError(t, uc.DeleteAlert(ctx, a.ID))
	_, err = uc.GetAlert(ctx, a.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateAlertWithoutUser(t *testing.T) {
	s := memstore.New()
	uc := NewAlertUseCase(s.Alerts(), s, nil, logger.NewNop())

	a, err := uc.CreateAlert(context.Background(), &dto.CreateAlertInput{Type: "payment"})
	require.NoError(t, err)
	assert.Nil(t, a.UserID)

	_, err = uc.CreateAlert(context.Background(), &dto.CreateAlertInput{Details: "no type"})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
}
