package opsmanager

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/opsmgr-dash/opsmgr-dash/config"
	"github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
	"github.com/opsmgr-dash/opsmgr-dash/retry"
)

var (
	// the reachability ladder: a patient first try, a quick second one
	accessibilitySchedule = []time.Duration{5 * time.Second, 3 * time.Second}

	authCheckTimeout = 10 * time.Second
)

func probeHttpClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: timeout,
			}).DialContext,
			TLSHandshakeTimeout: timeout,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
	}
}

func probeUrl(instanceUrl string) string {
	if len(instanceUrl) > 0 && instanceUrl[len(instanceUrl)-1] == '/' {
		return instanceUrl
	}
	return instanceUrl + "/"
}

// CheckAccessibility probes whether the instance answers HTTP at all. An
// authentication-demanding reply (401/403) still means the service runs.
func CheckAccessibility(instanceUrl string) api.AccessibilityResult {
	result := api.AccessibilityResult{
		Status:         api.Unreachable,
		AttemptDetails: make([]api.AttemptDetail, 0, len(accessibilitySchedule)),
	}
	totalStart := time.Now()

	var lastCode int
	var lastErr error

	err := retry.Do(func(attempt int, timeout time.Duration) error {
		detail := api.AttemptDetail{
			Attempt:     attempt + 1,
			TimeoutSecs: timeout.Seconds(),
		}
		start := time.Now()
		response, err := probeHttpClient(timeout).Get(probeUrl(instanceUrl))
		detail.ResponseTime = time.Since(start).Seconds()

		if err != nil {
			lastErr = err
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				detail.Status = "timeout"
			} else {
				detail.Status = "connection_error"
				detail.Error = err.Error()
			}
			result.AttemptDetails = append(result.AttemptDetails, detail)
			return err
		}
		response.Body.Close()

		lastErr = nil
		lastCode = response.StatusCode
		switch response.StatusCode {
		case http.StatusOK, http.StatusUnauthorized, http.StatusForbidden:
			// the service is up, auth state is checked separately
			detail.Status = "success"
			result.AttemptDetails = append(result.AttemptDetails, detail)
			return nil
		default:
			detail.Status = "unexpected_status"
			detail.StatusCode = response.StatusCode
			result.AttemptDetails = append(result.AttemptDetails, detail)
			return fmt.Errorf("unexpected status code: %d", response.StatusCode)
		}
	}, nil, &retry.Config{Timeouts: accessibilitySchedule}, instanceUrl)

	result.Attempts = len(result.AttemptDetails)
	result.ResponseTime = time.Since(totalStart).Seconds()

	if err == nil {
		result.Status = api.Accessible
		result.Details = fmt.Sprintf("Connected successfully on attempt %d (HTTP %d)",
			result.Attempts, lastCode)
		return result
	}

	switch {
	case lastErr == nil:
		result.Status = api.Unreachable
		result.Details = fmt.Sprintf("Unexpected status code: %d (tried %d times)",
			lastCode, result.Attempts)
	case isTimeout(lastErr):
		result.Status = api.Timeout
		result.Details = fmt.Sprintf("All %d attempts timed out", result.Attempts)
	case isConnectionError(lastErr):
		result.Status = api.Unreachable
		result.Details = fmt.Sprintf("Connection failed on all %d attempts", result.Attempts)
	default:
		result.Status = api.ProbeError
		result.Details = fmt.Sprintf("Error on all %d attempts: %s", result.Attempts, lastErr.Error())
	}
	return result
}

func isTimeout(err error) bool {
	netErr, ok := err.(net.Error)
	return ok && netErr.Timeout()
}

func isConnectionError(err error) bool {
	_, ok := err.(*net.OpError)
	if ok {
		return true
	}
	// http wraps dial errors into url.Error
	type unwrapper interface{ Unwrap() error }
	if wrapped, ok := err.(unwrapper); ok && wrapped.Unwrap() != nil {
		return isConnectionError(wrapped.Unwrap())
	}
	return false
}

// CheckAuthentication verifies the API key pair by listing the organizations.
func CheckAuthentication(instance *config.OpsManagerInstance) api.AuthResult {
	client := NewClient(instance, int(authCheckTimeout.Seconds()))

	start := time.Now()
	var resp api.OrganizationsResponse
	err := client.Get("/orgs", &resp)
	elapsed := time.Since(start).Seconds()

	if err == nil {
		return api.AuthResult{Status: api.Authenticated, ResponseTime: elapsed}
	}

	if reqErr, ok := err.(*RequestError); ok {
		if reqErr.StatusCode == http.StatusUnauthorized || reqErr.StatusCode == http.StatusForbidden {
			return api.AuthResult{Status: api.Unauthorized, ResponseTime: elapsed, StatusCode: reqErr.StatusCode}
		}
		return api.AuthResult{Status: api.ProbeError, ResponseTime: elapsed, StatusCode: reqErr.StatusCode}
	}
	if isTimeout(err) {
		return api.AuthResult{Status: api.Timeout, ResponseTime: authCheckTimeout.Seconds()}
	}
	if isConnectionError(err) {
		return api.AuthResult{Status: api.Unreachable}
	}
	return api.AuthResult{Status: api.ProbeError, Error: err.Error()}
}

// Version fetches the service version from the unauthenticated version
// manifest endpoint. It returns "Unknown" when the version can't be told.
func Version(instanceUrl string) string {
	client := NewClient(&config.OpsManagerInstance{Url: instanceUrl}, int(authCheckTimeout.Seconds()))

	var manifest struct{}
	if err := client.Get("/unauth/versionManifest", &manifest); err != nil && client.LastStatus() == 0 {
		return "Unknown"
	}
	// the body doesn't matter, the version rides on the reply header
	if version := client.ServerVersion(); len(version) > 0 {
		return version
	}
	return "Unknown"
}

// ProbeInstance runs the full status check of one instance: reachability
// first, then (only when reachable) authentication and version.
func ProbeInstance(instance *config.OpsManagerInstance) *api.InstanceStatus {
	status := &api.InstanceStatus{
		Url:         instance.Url,
		Hostname:    HostnameOf(instance.Url),
		Region:      instance.Region,
		Environment: instance.Environment,
		Version:     "Unknown",
	}

	status.Accessibility = CheckAccessibility(instance.Url)

	if status.Accessibility.Status == api.Accessible {
		status.Authentication = CheckAuthentication(instance)
		status.Version = Version(instance.Url)
	} else {
		status.Authentication = api.AuthResult{Status: api.NotChecked}
	}

	zap.L().Sugar().Debugf("Probed [%s]: %s / %s / %s",
		instance.Url, status.Accessibility.Status, status.Authentication.Status, status.Version)

	return status
}
