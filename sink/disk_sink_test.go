package sink

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IDMendis/RealTimeSecureChatApp/domain"
	"github.com/IDMendis/RealTimeSecureChatApp/mocks"
	"github.com/IDMendis/RealTimeSecureChatApp/repositories"
)

func TestDiskSink_Persists_Chat(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepository := mocks.NewMockIMessageRepository(ctrl)
	diskSink := NewDiskSink(mockRepository, slog.Default())

	msg := domain.Message{
		ID:       uuid.New(),
		Kind:     domain.KindChat,
		SenderID: "alice",
		RoomID:   "general",
		Body:     "hi",
		SentAt:   time.Now().UTC(),
	}

	// Then the stored record carries the room scope
	mockRepository.EXPECT().StoreMessage(repositories.DiskMessage{
		ID:     msg.ID,
		Scope:  "room:general",
		Author: "alice",
		Body:   "hi",
		At:     msg.SentAt,
	}).Return(nil).Times(1)

	req.NoError(diskSink.Consume(context.Background(), msg))
}

func TestDiskSink_Skips_Notifications(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepository := mocks.NewMockIMessageRepository(ctrl)
	diskSink := NewDiskSink(mockRepository, slog.Default())

	// Given a lifecycle notification: the repository must never see it
	msg := domain.NewLeftRoom("alice", "general", time.Now())

	req.NoError(diskSink.Consume(context.Background(), msg))
}

func TestScope_Follows_Routing_Precedence(t *testing.T) {
	req := require.New(t)

	// Private beats room, room beats public
	req.Equal("private", Scope(domain.Message{RecipientID: "bob", RoomID: "general"}))
	req.Equal("room:general", Scope(domain.Message{RoomID: "general"}))
	req.Equal("public", Scope(domain.Message{}))
}
