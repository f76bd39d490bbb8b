package e2e

import (
	"bufio"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
)

// lineClient wraps one TCP session speaking the TYPE:payload protocol.
type lineClient struct {
	s      *chatSuite
	conn   net.Conn
	reader *bufio.Reader
	name   string
}

func (s *chatSuite) dialLine(username string) *lineClient {
	conn, err := net.DialTimeout("tcp", s.Config.TCPAddr, 5*time.Second)
	s.Require().NoError(err, "Failed to dial %s", s.Config.TCPAddr)

	client := &lineClient{s: s, conn: conn, reader: bufio.NewReader(conn), name: username}
	client.send("CONNECT:" + username)
	return client
}

func (c *lineClient) send(line string) {
	_, err := c.conn.Write([]byte(line + "\n"))
	c.s.Require().NoError(err)
}

// waitFor reads lines until one matches, failing the suite on timeout.
func (c *lineClient) waitFor(match func(string) bool) string {
	c.s.Require().NoError(c.conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	for {
		line, err := c.reader.ReadString('\n')
		c.s.Require().NoError(err, "%s timed out waiting for a line", c.name)

		line = strings.TrimRight(line, "\r\n")
		if c.s.Config.Colours {
			color.Gray.Printf("[%s] <- %s\n", c.name, line)
		}
		if match(line) {
			return line
		}
	}
}

func (c *lineClient) close() {
	_ = c.conn.Close()
}

func (s *chatSuite) TestLineProtocolFlow() {
	if s.Config.TCPAddr == "" {
		s.T().Skip("TCP_ADDR not set, line protocol not deployed")
	}

	alice := s.dialLine("alice-" + uuid.NewString()[:8])
	bob := s.dialLine("bob-" + uuid.NewString()[:8])
	defer alice.close()
	defer bob.close()

	room := "e2e-" + uuid.NewString()[:8]

	s.Run("Step 1: Both join the room and see each other arrive", func() {
		alice.send("JOIN:" + room)
		alice.waitFor(func(line string) bool {
			return strings.Contains(line, alice.name+" joined the room")
		})

		bob.send("JOIN:" + room)
		alice.waitFor(func(line string) bool {
			return strings.Contains(line, bob.name+" joined the room")
		})
	})

	s.Run("Step 2: A room message reaches every member with the sender prefix", func() {
		alice.send("ROOM:" + room + ":hello over tcp")

		expected := alice.name + ": hello over tcp"
		for _, member := range []*lineClient{alice, bob} {
			member.waitFor(func(line string) bool { return line == expected })
		}
	})

	s.Run("Step 3: A private message echoes to the sender", func() {
		bob.send("PRIVATE:" + alice.name + ":psst")

		expected := bob.name + " (private): psst"
		alice.waitFor(func(line string) bool { return line == expected })
		bob.waitFor(func(line string) bool { return line == expected })
	})

	s.Run("Step 4: Disconnect notifies the remaining member", func() {
		bobName := bob.name
		bob.send("DISCONNECT")

		alice.waitFor(func(line string) bool {
			return strings.Contains(line, bobName+" left the room")
		})
		alice.waitFor(func(line string) bool {
			return strings.Contains(line, bobName+" disconnected")
		})
	})
}
