package query

import (
	"context"

	"github.com/originals/collab-client/client/internal/api"
	"github.com/originals/collab-client/client/internal/types"
)

// CreatePosting publishes a posting and invalidates every feed variant.
func (l *Layer) CreatePosting(ctx context.Context, req types.CreatePostingRequest) (*types.CreatePostingResult, error) {
	wallet, err := l.wallet()
	if err != nil {
		return nil, err
	}
	res, err := api.CreatePosting(ctx, l.req, wallet, req)
	if err != nil {
		l.notify.Failure(failureMessage(err, "Failed to create collaboration"), err)
		return nil, err
	}
	l.cache.Invalidate(FeedPrefix())
	l.notify.Success("Collaboration created successfully!")
	return res, nil
}

// UpdatePostingStatus changes a posting's status and invalidates the posting
// and the feed.
func (l *Layer) UpdatePostingStatus(ctx context.Context, id string, status types.PostingStatus) (*types.Ack, error) {
	wallet, err := l.wallet()
	if err != nil {
		return nil, err
	}
	res, err := api.UpdatePostingStatus(ctx, l.req, wallet, id, status)
	if err != nil {
		l.notify.Failure(failureMessage(err, "Failed to update collaboration status"), err)
		return nil, err
	}
	l.cache.Invalidate(CollabKey(id))
	l.cache.Invalidate(FeedPrefix())
	l.notify.Success("Collaboration status updated")
	return res, nil
}

// PingPosting expresses interest in a posting. No cached read changes.
func (l *Layer) PingPosting(ctx context.Context, id, interestedRole, bio string) (*types.PingResult, error) {
	wallet, err := l.wallet()
	if err != nil {
		return nil, err
	}
	res, err := api.PingPosting(ctx, l.req, wallet, id, types.PingRequest{InterestedRole: interestedRole, Bio: bio})
	if err != nil {
		l.notify.Failure(failureMessage(err, "Failed to send ping"), err)
		return nil, err
	}
	l.notify.Success("Ping sent successfully!")
	return res, nil
}

// SendMessage appends to a match thread. The thread and the wallet's match
// list (last message time, unread count) are invalidated.
func (l *Layer) SendMessage(ctx context.Context, matchID string, req types.SendMessageRequest) (*types.SendMessageResult, error) {
	wallet, err := l.wallet()
	if err != nil {
		return nil, err
	}
	res, err := api.SendMessage(ctx, l.req, wallet, matchID, req)
	if err != nil {
		l.notify.Failure(failureMessage(err, "Failed to send message"), err)
		return nil, err
	}
	l.cache.Invalidate(MessagesPrefix(matchID))
	l.cache.Invalidate(MatchesPrefix(wallet))
	l.notify.Success("Message sent")
	return res, nil
}

// MarkMessagesRead marks a thread read, with the same invalidation as
// SendMessage.
func (l *Layer) MarkMessagesRead(ctx context.Context, matchID string) (*types.Ack, error) {
	wallet, err := l.wallet()
	if err != nil {
		return nil, err
	}
	res, err := api.MarkMessagesRead(ctx, l.req, wallet, matchID)
	if err != nil {
		l.notify.Failure(failureMessage(err, "Failed to mark messages as read"), err)
		return nil, err
	}
	l.cache.Invalidate(MessagesPrefix(matchID))
	l.cache.Invalidate(MatchesPrefix(wallet))
	l.notify.Success("Messages marked as read")
	return res, nil
}
