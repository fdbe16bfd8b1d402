package tasks

import "context"

// BackfillEnqueuer submits backfill work to the queue. It satisfies the
// interface the books controller expects.
type BackfillEnqueuer struct {
	client *Client
}

func NewBackfillEnqueuer(client *Client) *BackfillEnqueuer {
	return &BackfillEnqueuer{client: client}
}

func (e *BackfillEnqueuer) EnqueueBook(ctx context.Context, bookID uint) error {
	_, err := e.client.Add(BackfillBookTask{BookID: bookID}).Ctx(ctx).Save()
	return err
}

func (e *BackfillEnqueuer) EnqueueAll(ctx context.Context) error {
	_, err := e.client.Add(BackfillAllTask{}).Ctx(ctx).Save()
	return err
}
