package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadassist/internal/notification/domain"
	"roadassist/internal/shared/apperrors"
	"roadassist/internal/shared/util"
)

type fakeNotificationRepo struct {
	rows map[string]*domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	cp := *n
	f.rows[n.ID] = &cp
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) (*domain.Notification, error) {
	n, ok := f.rows[id]
	if !ok || n.UserID != userID {
		return nil, apperrors.NotFoundf("notification %s", id)
	}
	now := time.Now().UTC()
	n.IsRead = true
	n.ReadAt = &now
	cp := *n
	return &cp, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range f.rows {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func TestRecordAndMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{rows: make(map[string]*domain.Notification)}
	service := NewNotificationService(repo, util.NewLogger())
	ctx := context.Background()

	require.NoError(t, service.Record(ctx, domain.Envelope{
		UserID:  "moto-1",
		Type:    domain.EventBreakdownAccepted,
		Title:   "Demande acceptee",
		Message: "Un garage a accepte votre demande de depannage",
	}))
	require.NoError(t, service.Record(ctx, domain.Envelope{
		UserID: "moto-1", Type: domain.EventMechanicOnWay, Title: "Mecanicien en route",
	}))

	list, err := service.List(ctx, "moto-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].IsRead)

	n, err := service.MarkRead(ctx, list[0].ID, "moto-1")
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	assert.NotNil(t, n.ReadAt)

	// marking someone else's notification fails
	_, err = service.MarkRead(ctx, list[1].ID, "intruder")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	count, err := service.MarkAllRead(ctx, "moto-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
