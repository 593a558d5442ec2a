package mq

import "context"

type publisher interface {
	PublishActivity(ctx context.Context, body []byte) error
}

// LazyPublisher resolves the shared broker client on every publish, so a
// process that boots while RabbitMQ is down starts publishing again as soon
// as the broker comes back.
type LazyPublisher struct {
	resolve func() (publisher, error)
}

func NewLazyPublisher() *LazyPublisher {
	return &LazyPublisher{
		resolve: func() (publisher, error) { return GetPublisher() },
	}
}

func (p *LazyPublisher) PublishActivity(ctx context.Context, body []byte) error {
	client, err := p.resolve()
	if err != nil {
		return err
	}
	return client.PublishActivity(ctx, body)
}
