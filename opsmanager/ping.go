package opsmanager

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// PingAge humanizes the age of a lastPing/lastHeartbeat timestamp. It
// returns ("Never", false) for an empty input and ("Unknown", false) for an
// unparseable one.
func PingAge(lastPing string) (string, bool) {
	if len(lastPing) < 1 {
		return "Never", false
	}
	pingTime, err := time.Parse(time.RFC3339, lastPing)
	if err != nil {
		return "Unknown", false
	}
	seconds := int64(time.Since(pingTime).Seconds())
	switch {
	case seconds > 86400:
		return fmt.Sprintf("%d days", seconds/86400), true
	case seconds > 3600:
		return fmt.Sprintf("%d hours", seconds/3600), true
	case seconds > 60:
		return fmt.Sprintf("%d minutes", seconds/60), true
	default:
		return fmt.Sprintf("%d seconds", seconds), true
	}
}

// DomainOf strips the scheme off an instance URL, this is the "Ops Manager"
// column of the backup and monitoring pages.
func DomainOf(instanceUrl string) string {
	domain := strings.TrimPrefix(instanceUrl, "https://")
	return strings.TrimPrefix(domain, "http://")
}

// HostnameOf returns the hostname part of an instance URL, falling back to
// the URL itself.
func HostnameOf(instanceUrl string) string {
	urlStr := instanceUrl
	if !strings.Contains(urlStr, "://") {
		urlStr = "https://" + urlStr
	}
	if parsed, err := url.Parse(urlStr); err == nil && len(parsed.Hostname()) > 0 {
		return parsed.Hostname()
	}
	return instanceUrl
}
