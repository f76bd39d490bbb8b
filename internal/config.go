package internal

import "time"

// Config carries every server-side tunable, loaded from the
// environment. The core itself defines no timeouts; everything here
// bounds the transport and persistence edges around it.
type Config struct {
	Host     string `env:"HOST,default=0.0.0.0"`
	HTTPPort int    `env:"HTTP_PORT,default=8080"`
	TCPPort  int    `env:"TCP_PORT,default=9090"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LimitMessages  *int   `env:"LIMIT_MESSAGES"`

	MaxSessions       int           `env:"MAX_SESSIONS,default=1024"`
	SendBufferSize    int           `env:"SEND_BUFFER_SIZE,default=256"`
	PersistBufferSize int           `env:"PERSIST_BUFFER_SIZE,default=1024"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=2s"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=30s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`
}
