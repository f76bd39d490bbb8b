// Package lineproto implements the line-oriented TYPE:payload wire
// protocol and its TCP acceptor. One text line is one frame:
//
//	CONNECT:<username>
//	GROUP:<body>
//	PRIVATE:<recipient>:<body>
//	JOIN:<room>
//	LEAVE:<room>
//	ROOM:<room>:<body>
//	DISCONNECT
package lineproto

import (
	"fmt"
	"strings"

	"github.com/IDMendis/RealTimeSecureChatApp/domain"
)

type FrameType string

const (
	TypeConnect    FrameType = "CONNECT"
	TypeGroup      FrameType = "GROUP"
	TypePrivate    FrameType = "PRIVATE"
	TypeJoin       FrameType = "JOIN"
	TypeLeave      FrameType = "LEAVE"
	TypeRoom       FrameType = "ROOM"
	TypeDisconnect FrameType = "DISCONNECT"
)

// Frame is one decoded line. Recipient doubles as the room identifier
// for JOIN/LEAVE/ROOM frames.
type Frame struct {
	Type      FrameType
	Recipient string
	Payload   string
}

// Parse decodes a single line. Unknown types are returned as-is for the
// caller to ignore; only a structurally broken line is an error.
func Parse(line string) (Frame, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.SplitN(line, ":", 2)
	if parts[0] == "" {
		return Frame{}, fmt.Errorf("empty frame type in %q", line)
	}

	frame := Frame{Type: FrameType(parts[0])}
	rest := ""
	if len(parts) == 2 {
		rest = parts[1]
	}

	switch frame.Type {
	case TypePrivate, TypeRoom:
		// Addressed frames carry a second separator: TYPE:<target>:<body>.
		addressed := strings.SplitN(rest, ":", 2)
		if len(addressed) != 2 || addressed[0] == "" {
			return Frame{}, fmt.Errorf("%s frame needs a target and a body in %q", frame.Type, line)
		}
		frame.Recipient = addressed[0]
		frame.Payload = addressed[1]
	case TypeJoin, TypeLeave:
		frame.Recipient = rest
	default:
		frame.Payload = rest
	}
	return frame, nil
}

// Encode renders a frame back to its wire line, without the newline.
func Encode(frame Frame) string {
	switch frame.Type {
	case TypePrivate, TypeRoom:
		return fmt.Sprintf("%s:%s:%s", frame.Type, frame.Recipient, frame.Payload)
	case TypeJoin, TypeLeave:
		return fmt.Sprintf("%s:%s", frame.Type, frame.Recipient)
	case TypeDisconnect:
		return string(frame.Type)
	default:
		return fmt.Sprintf("%s:%s", frame.Type, frame.Payload)
	}
}

// EncodeMessage renders a routed message for a line-protocol client.
// Lifecycle notifications collapse to server lines; chat keeps the
// sender prefix the original protocol used.
func EncodeMessage(msg domain.Message) string {
	switch msg.Kind {
	case domain.KindChat:
		if msg.IsPrivate() {
			return fmt.Sprintf("%s (private): %s", msg.SenderID, msg.Body)
		}
		return fmt.Sprintf("%s: %s", msg.SenderID, msg.Body)
	default:
		return fmt.Sprintf("* %s", msg.Body)
	}
}
