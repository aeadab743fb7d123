package main

import "time"

type Config struct {
	APIBaseURL  string        `env:"API_BASE_URL,required=true"`
	SocketURL   string        `env:"SOCKET_URL,required=true"`
	AccessToken string        `env:"ACCESS_TOKEN,required=true"`
	RoomID      string        `env:"ROOM_ID,required=true"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT,default=10s"`

	EventBufferSize  int           `env:"EVENT_BUFFER_SIZE,default=256"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	LatencyThreshold time.Duration `env:"LATENCY_THRESHOLD,default=2s"`

	LifecyclePollInterval time.Duration `env:"LIFECYCLE_POLL_INTERVAL,default=10s"`
	CountdownTicks        int           `env:"COUNTDOWN_TICKS,default=5"`
	TickInterval          time.Duration `env:"TICK_INTERVAL,default=1s"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
}
