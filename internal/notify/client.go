// AngelaMos | 2026
// client.go

package notify

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/carterperez-dev/courseware/internal/config"
)

// Client queues notification tasks onto the shared redis broker. The
// worker binary drains them.
type Client struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

func NewClient(client *asynq.Client, cfg config.TasksConfig) *Client {
	return &Client{
		client:   client,
		queue:    cfg.Queue,
		maxRetry: cfg.MaxRetry,
	}
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task) error {
	_, err := c.client.EnqueueContext(
		ctx,
		task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(c.maxRetry),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	return nil
}

func (c *Client) SubscriptionConfirmed(
	ctx context.Context,
	email, courseName string,
) error {
	task, err := NewSubscriptionConfirmedTask(email, courseName)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) Unsubscribed(
	ctx context.Context,
	email, courseName string,
) error {
	task, err := NewUnsubscribedTask(email, courseName)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) CourseUpdated(
	ctx context.Context,
	courseName string,
	recipients []string,
) error {
	task, err := NewCourseUpdatedTask(courseName, recipients)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) Close() error {
	return c.client.Close()
}
