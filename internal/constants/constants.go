package constants

import "time"

var CacheTTL = struct {
	Payload time.Duration
}{
	Payload: 30 * 24 * time.Hour, // 30일 - 조립된 응답 payload
}

var CacheWriterConfig = struct {
	Workers      int
	QueueSize    int
	WriteTimeout time.Duration
	DrainTimeout time.Duration
}{
	Workers:      4,
	QueueSize:    256,
	WriteTimeout: 5 * time.Second,
	DrainTimeout: 10 * time.Second,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 5,                // 5회 연속 실패 시 Circuit OPEN
	ResetTimeout:     30 * time.Second, // 기본 재시도 대기 시간 (30초)
}

var APIConfig = struct {
	OriginTimeout time.Duration
	UserAgent     string
}{
	OriginTimeout: 15 * time.Second,
	UserAgent:     "efdata-api-go/1.0",
}

var ServerConfig = struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
}{
	ReadHeaderTimeout: 5 * time.Second,
	WriteTimeout:      60 * time.Second,
	ShutdownTimeout:   15 * time.Second,
}
