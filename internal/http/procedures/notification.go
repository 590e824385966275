package procedures

import (
	"context"

	"ecodeli/internal/domain"
	"ecodeli/internal/rpc"
)

type notificationListIn struct {
	UnreadOnly bool `json:"unread_only"`
	Limit      int  `json:"limit" validate:"omitempty,min=1,max=200"`
}

type markedOut struct {
	ID   int64 `json:"id"`
	Read bool  `json:"read"`
}

// Notification returns the inbox procedures.
func Notification(uc notificationUsecase) []rpc.Endpoint {
	return []rpc.Endpoint{
		rpc.Procedure[notificationListIn, []domain.Notification]{
			Name:        "notification.list",
			Description: "The caller's notifications, newest first",
			Access:      rpc.Authenticated,
			Handle: func(ctx context.Context, c rpc.Caller, in notificationListIn) ([]domain.Notification, error) {
				return uc.List(ctx, c.UserID(), in.UnreadOnly, in.Limit)
			},
		},
		rpc.Procedure[idIn, markedOut]{
			Name:        "notification.markRead",
			Description: "Mark one of the caller's notifications as read",
			Access:      rpc.Authenticated,
			Handle: func(ctx context.Context, c rpc.Caller, in idIn) (markedOut, error) {
				if err := uc.MarkRead(ctx, c.UserID(), in.ID); err != nil {
					return markedOut{}, err
				}
				return markedOut{ID: in.ID, Read: true}, nil
			},
		},
	}
}
