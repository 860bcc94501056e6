package notification

import (
	"context"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
)

var ErrNotFound = core.NewNotFoundError("notification")

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		QueryNotifications(ctx context.Context, filter QueryFilter) ([]Notification, error)
		// MarkNotificationsRead marks the student's notifications with the given ids read, or all of them
		// when no id is given, and returns how many changed.
		MarkNotificationsRead(ctx context.Context, studentID string, ids ...string) (int, error)
	}

	Service interface {
		Notify(ctx context.Context, nn NewNotification) (Notification, error)
		Feed(ctx context.Context, studentID string) ([]Item, error)
		UnreadCount(ctx context.Context, studentID string) (int, error)
		MarkRead(ctx context.Context, studentID, id string) error
		MarkAllRead(ctx context.Context, studentID string) (int, error)
	}

	service struct {
		repo    Repository
		nowFunc func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{
		repo:    repo,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) Notify(ctx context.Context, nn NewNotification) (Notification, error) {
	if nn.Type == "" {
		nn.Type = TypeInfo
	}
	n := Notification{
		ID:          uuid.New().String(),
		StudentID:   nn.StudentID,
		StudentName: nn.StudentName,
		Type:        nn.Type,
		Title:       nn.Title,
		Message:     nn.Message,
		Date:        svc.nowFunc(),
	}
	n, err := svc.repo.CreateNotification(ctx, n)
	return n, errors.Wrap(err, "creating notification")
}

// Feed returns the student's latest notifications, newest first.
func (svc *service) Feed(ctx context.Context, studentID string) ([]Item, error) {
	notifs, err := svc.repo.QueryNotifications(ctx, QueryFilter{StudentID: studentID})
	if err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	sort.SliceStable(notifs, func(i, j int) bool { return notifs[i].Date.After(notifs[j].Date) })
	if len(notifs) > FeedSize {
		notifs = notifs[:FeedSize]
	}

	now := svc.nowFunc()
	items := make([]Item, 0, len(notifs))
	for _, n := range notifs {
		items = append(items, Item{Notification: n, Age: Age(n.Date, now)})
	}
	return items, nil
}

func (svc *service) UnreadCount(ctx context.Context, studentID string) (int, error) {
	notifs, err := svc.repo.QueryNotifications(ctx, QueryFilter{StudentID: studentID, Unread: true})
	if err != nil {
		return 0, errors.Wrap(err, "querying notifications")
	}
	return len(notifs), nil
}

func (svc *service) MarkRead(ctx context.Context, studentID, id string) error {
	id = core.CleanString(id)
	if id == "" {
		return ErrNotFound
	}
	_, err := svc.repo.MarkNotificationsRead(ctx, studentID, id)
	return err
}

func (svc *service) MarkAllRead(ctx context.Context, studentID string) (int, error) {
	return svc.repo.MarkNotificationsRead(ctx, studentID)
}

// Age renders how long ago t was, e.g. "Just now" or "3 hours ago".
func Age(t, now time.Time) string {
	if now.Sub(t) < time.Minute {
		return "Just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
