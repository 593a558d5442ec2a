package mq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	published int
}

func (f *fakePublisher) PublishActivity(_ context.Context, _ []byte) error {
	f.published++
	return nil
}

func TestLazyPublisherResolvesPerPublish(t *testing.T) {
	fake := &fakePublisher{}
	resolves := 0
	p := &LazyPublisher{
		resolve: func() (publisher, error) {
			resolves++
			return fake, nil
		},
	}

	require.NoError(t, p.PublishActivity(context.Background(), []byte("a")))
	require.NoError(t, p.PublishActivity(context.Background(), []byte("b")))

	assert.Equal(t, 2, resolves, "every publish resolves the client again")
	assert.Equal(t, 2, fake.published)
}

// A broker outage at boot must not poison the publisher for the process
// lifetime: once resolution succeeds, publishes go through.
func TestLazyPublisherRecoversAfterOutage(t *testing.T) {
	fake := &fakePublisher{}
	down := true
	p := &LazyPublisher{
		resolve: func() (publisher, error) {
			if down {
				return nil, errors.New("broker down")
			}
			return fake, nil
		},
	}

	err := p.PublishActivity(context.Background(), []byte("a"))
	assert.Error(t, err)
	assert.Zero(t, fake.published)

	down = false
	require.NoError(t, p.PublishActivity(context.Background(), []byte("b")))
	assert.Equal(t, 1, fake.published)
}
