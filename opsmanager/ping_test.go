package opsmanager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPingAge(t *testing.T) {
	t.Run("empty means never", func(t *testing.T) {
		age, ok := PingAge("")
		assert.Equal(t, "Never", age)
		assert.False(t, ok)
	})

	t.Run("unparseable means unknown", func(t *testing.T) {
		age, ok := PingAge("not a timestamp")
		assert.Equal(t, "Unknown", age)
		assert.False(t, ok)
	})

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"minutes", 5 * time.Minute, "5 minutes"},
		{"hours", 3 * time.Hour, "3 hours"},
		{"days", 49 * time.Hour, "2 days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stamp := time.Now().Add(-tt.ago).Format(time.RFC3339)
			age, ok := PingAge(stamp)
			assert.True(t, ok)
			assert.Equal(t, tt.want, age)
		})
	}

	t.Run("seconds", func(t *testing.T) {
		stamp := time.Now().Add(-30 * time.Second).Format(time.RFC3339)
		age, ok := PingAge(stamp)
		assert.True(t, ok)
		assert.Contains(t, age, "seconds")
	})
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "om.example.com:8080", DomainOf("https://om.example.com:8080"))
	assert.Equal(t, "om.example.com", DomainOf("http://om.example.com"))
	assert.Equal(t, "om.example.com", DomainOf("om.example.com"))
}

func TestHostnameOf(t *testing.T) {
	assert.Equal(t, "om.example.com", HostnameOf("https://om.example.com:8080"))
	assert.Equal(t, "om.example.com", HostnameOf("om.example.com"))
	assert.Equal(t, "127.0.0.1", HostnameOf("http://127.0.0.1:9090/path"))
}
