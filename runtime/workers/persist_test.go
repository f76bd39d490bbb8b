package workers

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IDMendis/RealTimeSecureChatApp/domain"
	"github.com/IDMendis/RealTimeSecureChatApp/mocks"
)

func TestPersistWorker_Drains_Queue_Into_Sink(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSink := mocks.NewMockPersistenceSink(ctrl)

	queue := make(chan domain.Message, 2)
	worker := NewPersistWorker(slog.Default(), queue, mockSink, time.Second)

	msg := domain.Message{ID: uuid.New(), SenderID: "alice", Body: "hi"}
	done := make(chan struct{})

	// Given the sink accepts exactly one message
	mockSink.EXPECT().Consume(gomock.Any(), msg).
		DoAndReturn(func(ctx context.Context, _ domain.Message) error {
			close(done)
			return nil
		}).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// When a message lands on the queue
	queue <- msg

	// Then it reaches the sink
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Sink was never called")
	}
}

func TestPersistWorker_Sink_Failure_Does_Not_Stop_It(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSink := mocks.NewMockPersistenceSink(ctrl)

	queue := make(chan domain.Message, 2)
	worker := NewPersistWorker(slog.Default(), queue, mockSink, time.Second)

	done := make(chan struct{})
	// Given the sink fails on the first message and accepts the second
	gomock.InOrder(
		mockSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("disk full")).Times(1),
		mockSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ domain.Message) error {
				close(done)
				return nil
			}).Times(1),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// When two messages land on the queue
	queue <- domain.Message{ID: uuid.New(), SenderID: "alice", Body: "one"}
	queue <- domain.Message{ID: uuid.New(), SenderID: "alice", Body: "two"}

	// Then the failure was local to the first message
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Worker stopped after a sink failure")
	}
}
