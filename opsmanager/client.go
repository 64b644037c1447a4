package opsmanager

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/icholy/digest"
	"go.uber.org/zap"

	"github.com/opsmgr-dash/opsmgr-dash/config"
	"github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
	"github.com/opsmgr-dash/opsmgr-dash/opts"
)

const (
	connectionTimeout = 3 * time.Second
)

// Client talks to one Ops Manager's public REST API using digest
// authenticated GET requests.
type Client struct {
	Instance      *config.OpsManagerInstance
	http          *http.Client
	mtx           *sync.Mutex
	serverVersion string // sniffed from the reply headers
	lastStatus    int    // HTTP status of the last request
}

// NewClient returns a client for the instance. The timeout is in seconds and
// bounds every request, connection establishment is bounded separately.
func NewClient(instance *config.OpsManagerInstance, timeout int) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: connectionTimeout,
		}).DialContext,
		TLSHandshakeTimeout: connectionTimeout,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}
	httpClient := &http.Client{
		Timeout: time.Second * time.Duration(timeout),
		Transport: &digest.Transport{
			Username:  instance.PublicKey,
			Password:  instance.PrivateKey,
			Transport: transport,
		},
	}
	return &Client{
		Instance: instance,
		http:     httpClient,
		mtx:      &sync.Mutex{},
	}
}

// Get performs an authenticated GET against the public API and decodes the
// JSON reply into res. A non-2xx reply is returned as an error.
func (client *Client) Get(endpoint string, res interface{}) error {
	uri := client.buildURI(api.PublicApiPrefix + endpoint)
	request, err := http.NewRequest(http.MethodGet, uri, nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")

	if opts.Opts.DebugOpsApi {
		zap.L().Sugar().Debugf("Request to ops manager %s", uri)
	}

	response, err := client.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	resBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if opts.Opts.DebugOpsApi {
		zap.L().Sugar().Debugf("Reply from ops manager %s (status %d):\n%s",
			uri, response.StatusCode, string(resBytes))
	}

	client.saveReplyMeta(response)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return &RequestError{StatusCode: response.StatusCode, Url: uri}
	}

	return json.Unmarshal(resBytes, res)
}

// RequestError is a non-2xx reply from the Ops Manager API.
type RequestError struct {
	StatusCode int
	Url        string
}

func (err *RequestError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", err.StatusCode, err.Url)
}

// IsNotFound tells whether the error is a HTTP 404 reply.
func IsNotFound(err error) bool {
	reqErr, ok := err.(*RequestError)
	return ok && reqErr.StatusCode == http.StatusNotFound
}

func (client *Client) buildURI(endpoint string) string {
	urlStr := client.Instance.Url
	if !strings.HasPrefix(urlStr, "https://") && !strings.HasPrefix(urlStr, "http://") {
		urlStr = "https://" + urlStr
	}
	parsed, err := url.Parse(urlStr)
	if err != nil {
		zap.L().Sugar().Errorf("URL parse '%s' failure: %s", urlStr, err.Error())
		return urlStr + endpoint
	}
	// the endpoint may carry its own query string
	path, query, _ := strings.Cut(endpoint, "?")
	u := &url.URL{
		Host:     parsed.Host,
		Scheme:   parsed.Scheme,
		Path:     strings.TrimRight(parsed.Path, "/") + path,
		RawQuery: query,
	}
	return u.String()
}

func (client *Client) saveReplyMeta(res *http.Response) {
	client.mtx.Lock()
	defer client.mtx.Unlock()

	client.lastStatus = res.StatusCode
	// the version header looks like "gitHash=abc123; versionString=7.0.1"
	if header := res.Header.Get(api.VersionHeader); len(header) > 0 {
		if version := ParseVersionHeader(header); len(version) > 0 {
			client.serverVersion = version
		}
	}
}

// ParseVersionHeader extracts the versionString value from the service
// version header.
func ParseVersionHeader(header string) string {
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "versionString=") {
			return strings.TrimPrefix(part, "versionString=")
		}
	}
	return ""
}

// ServerVersion returns the version seen on the last reply (may be empty).
func (client *Client) ServerVersion() string {
	client.mtx.Lock()
	defer client.mtx.Unlock()
	return client.serverVersion
}

// LastStatus returns the HTTP status code of the last reply.
func (client *Client) LastStatus() int {
	client.mtx.Lock()
	defer client.mtx.Unlock()
	return client.lastStatus
}
