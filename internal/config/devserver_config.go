package config

import (
	"fmt"
	"strings"
	"time"
)

type DevServerConfig interface {
	GetDevPort() string
	GetDevSigningSecret() string
	GetDevTokenExpiry() time.Duration
	GetDevAllowedOrigins() []string
	GetDevClaimStyle() ClaimStyle
	GetDevSeedPassword() string
}

// ClaimStyle selects the claim names the development server issues
type ClaimStyle string

const (
	ClaimStyleHospital ClaimStyle = "hospital" // hospitalId, userId, role
	ClaimStyleClinic   ClaimStyle = "clinic"   // clinic_id, user_id, userRole
)

type DevServer struct{}

var _ DevServerConfig = DevServer{}

func (DevServer) GetDevPort() string {
	port := GetEnv("DEV_PORT", "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (DevServer) GetDevSigningSecret() string {
	return GetEnv("DEV_SIGNING_SECRET", "dev-only-secret")
}

func (DevServer) GetDevTokenExpiry() time.Duration {
	d, err := time.ParseDuration(GetEnv("DEV_TOKEN_EXPIRY", "1h"))
	if err != nil {
		return time.Hour
	}
	return d
}

func (DevServer) GetDevAllowedOrigins() []string {
	return strings.Split(GetEnv("DEV_ALLOWED_ORIGINS", "http://localhost:3000"), ",")
}

func (DevServer) GetDevClaimStyle() ClaimStyle {
	if ClaimStyle(GetEnv("DEV_CLAIM_STYLE", "")) == ClaimStyleClinic {
		return ClaimStyleClinic
	}
	return ClaimStyleHospital
}

// GetDevSeedPassword is the password given to the seeded demo accounts
func (DevServer) GetDevSeedPassword() string {
	return GetEnv("DEV_SEED_PASSWORD", "password123")
}
