package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type SessionBackend string

const (
	SessionBackendFile  SessionBackend = "file"
	SessionBackendRedis SessionBackend = "redis"
)

type SessionConfig interface {
	GetSessionBackend() SessionBackend
	GetSessionName() string
	GetSessionFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKeyPrefix() string
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionBackend() SessionBackend {
	return SessionBackend(GetEnv("SESSION_BACKEND", string(SessionBackendFile)))
}

// GetSessionName is the fixed key the token is stored under
func (Session) GetSessionName() string {
	return GetEnv("SESSION_NAME", "token")
}

func (Session) GetSessionFile() string {
	if f := os.Getenv("SESSION_FILE"); f != "" {
		return f
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clinic-session"
	}
	return filepath.Join(home, ".clinic-session")
}

func (Session) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Session) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Session) GetRedisDB() int {
	db, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		return 0
	}
	return db
}

func (Session) GetRedisKeyPrefix() string {
	return GetEnv("REDIS_KEY_PREFIX", "clinic:session")
}
