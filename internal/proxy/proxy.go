package proxy

import (
	"fmt"
	"math/rand"
	"net/url"

	"github.com/williampepple1/fare-scraper/internal/config"
)

// Manager hands out proxy servers to browser launches
type Manager struct {
	Config *config.ProxyConfig
}

// NewManager creates a new proxy manager
func NewManager(config *config.ProxyConfig) *Manager {
	return &Manager{
		Config: config,
	}
}

// Next returns the proxy server for the next browser, or "" when proxies are off.
// Chrome ignores credentials in --proxy-server, so userinfo is rejected.
func (m *Manager) Next() (string, error) {
	if !m.Config.Enabled || len(m.Config.List) == 0 {
		return "", nil
	}

	// Select a proxy
	proxyStr := m.Config.List[0]
	if m.Config.Rotate && len(m.Config.List) > 1 {
		proxyStr = m.Config.List[rand.Intn(len(m.Config.List))]
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		return "", err
	}
	if proxyURL.Scheme == "" || proxyURL.Host == "" {
		return "", fmt.Errorf("proxy %q: expected scheme://host:port", proxyStr)
	}
	if proxyURL.User != nil {
		return "", fmt.Errorf("proxy %q: credentials are not supported", proxyURL.Redacted())
	}

	return proxyURL.String(), nil
}
