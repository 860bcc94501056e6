package repos

import (
	"context"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/notification"
)

type notificationRepository struct {
	notifications collection[notification.Notification]
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(store core.Store) notification.Repository {
	return &notificationRepository{notifications: newCollection[notification.Notification](store, keyNotifications)}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	return repo.notifications.add(ctx, n, nil)
}

func (repo *notificationRepository) QueryNotifications(ctx context.Context, filter notification.QueryFilter) ([]notification.Notification, error) {
	return repo.notifications.filter(ctx, func(it notification.Notification) bool {
		return (filter.StudentID == "" || it.StudentID == filter.StudentID) &&
			(!filter.Unread || !it.Read)
	})
}

func (repo *notificationRepository) MarkNotificationsRead(ctx context.Context, studentID string, ids ...string) (int, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var changed, found int
	err := repo.notifications.mutate(ctx, func(items []notification.Notification) ([]notification.Notification, error) {
		for i, it := range items {
			if it.StudentID != studentID || (len(ids) > 0 && !wanted[it.ID]) {
				continue
			}
			found++
			if !it.Read {
				items[i].Read = true
				changed++
			}
		}
		if len(ids) > 0 && found == 0 {
			return nil, notification.ErrNotFound
		}
		return items, nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}
