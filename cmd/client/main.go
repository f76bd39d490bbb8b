package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"

	"github.com/IDMendis/RealTimeSecureChatApp/transport/ws"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `env:"CHAT_SERVER_URL,default=ws://localhost:8080/ws"`
	Username  string `env:"CHAT_USERNAME,required=true"`
	Room      string `env:"CHAT_ROOM"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the WebSocket client lifecycle: connect, identify, join
// the optional default room, then pump stdin lines as chat frames.
//
// Input syntax:
//
//	/join <room>      join a room
//	/leave <room>     leave a room
//	/msg <user> text  private message
//	/room <id> text   room message
//	anything else     public broadcast
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect and identify.
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", config.ServerURL, err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(ws.Inbound{Type: ws.TypeIdentify, SenderID: config.Username}); err != nil {
		return exitRuntime, fmt.Errorf("identify failed: %w", err)
	}
	if config.Room != "" {
		if err := conn.WriteJSON(ws.Inbound{Type: ws.TypeJoin, SenderID: config.Username, RoomID: config.Room}); err != nil {
			return exitRuntime, fmt.Errorf("join failed: %w", err)
		}
	}

	// 4. Render incoming frames until the connection dies.
	go func() {
		for {
			var frame ws.Outbound
			if err := conn.ReadJSON(&frame); err != nil {
				stop()
				return
			}
			render(frame, config.Username)
		}
	}()

	// 5. Pump stdin.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if frame, ok := parseInput(scanner.Text(), config.Username); ok {
				if err := conn.WriteJSON(frame); err != nil {
					stop()
					return
				}
			}
		}
		stop()
	}()

	<-ctx.Done()
	color.Gray.Println("Disconnected.")
	return exitOK, nil
}

func parseInput(line, username string) (ws.Inbound, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return ws.Inbound{}, false
	}

	fields := strings.SplitN(line, " ", 3)
	switch fields[0] {
	case "/join":
		if len(fields) < 2 {
			color.Red.Println("usage: /join <room>")
			return ws.Inbound{}, false
		}
		return ws.Inbound{Type: ws.TypeJoin, SenderID: username, RoomID: fields[1]}, true
	case "/leave":
		if len(fields) < 2 {
			color.Red.Println("usage: /leave <room>")
			return ws.Inbound{}, false
		}
		return ws.Inbound{Type: ws.TypeLeave, SenderID: username, RoomID: fields[1]}, true
	case "/msg":
		if len(fields) < 3 {
			color.Red.Println("usage: /msg <user> <text>")
			return ws.Inbound{}, false
		}
		return ws.Inbound{Type: ws.TypeChat, SenderID: username, RecipientID: fields[1], Body: fields[2]}, true
	case "/room":
		if len(fields) < 3 {
			color.Red.Println("usage: /room <id> <text>")
			return ws.Inbound{}, false
		}
		return ws.Inbound{Type: ws.TypeChat, SenderID: username, RoomID: fields[1], Body: fields[2]}, true
	default:
		return ws.Inbound{Type: ws.TypeChat, SenderID: username, Body: line}, true
	}
}

func render(frame ws.Outbound, username string) {
	switch frame.Kind {
	case ws.TypeError:
		color.Red.Printf("error: %s\n", frame.Body)
	case "CHAT":
		prefix := frame.SenderID
		if frame.SenderID == username {
			prefix = "you"
		}
		switch {
		case frame.RecipientID != "":
			color.Magenta.Printf("[private] %s: %s\n", prefix, frame.Body)
		case frame.RoomID != "":
			color.Cyan.Printf("[%s] %s: %s\n", frame.RoomID, prefix, frame.Body)
		default:
			color.Green.Printf("%s: %s\n", prefix, frame.Body)
		}
	default:
		color.Gray.Printf("* %s\n", frame.Body)
	}
}
