package main

import (
	"testing"

	"github.com/getmentor/contentbridge/config"
	"github.com/stretchr/testify/assert"
)

func TestCORSOrigins_DevelopmentDoesNotTouchConfig(t *testing.T) {
	configured := make([]string, 1, 4) // spare capacity an append would write into
	configured[0] = "https://site.example.com"
	cfg := &config.Config{Server: config.ServerConfig{
		AppEnv:         "development",
		AllowedOrigins: configured,
	}}

	origins := corsOrigins(cfg)

	assert.Equal(t, []string{"https://site.example.com", "http://localhost:3000", "http://127.0.0.1:3000"}, origins)
	assert.Equal(t, []string{"https://site.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "", configured[:2][1])
}

func TestCORSOrigins_Production(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{
		AppEnv:         "production",
		GinMode:        "release",
		AllowedOrigins: []string{"https://site.example.com"},
	}}

	assert.Equal(t, []string{"https://site.example.com"}, corsOrigins(cfg))
}
