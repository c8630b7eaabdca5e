package signaling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TurnConfig is the relay-supplied TURN/STUN description
type TurnConfig struct {
	StunURL            string `json:"stun_url"`
	Host               string `json:"host"`
	Port               int    `json:"port"`
	Username           string `json:"username"`
	Credential         string `json:"credential"`
	ICETransportPolicy string `json:"ice_transport_policy"`
}

// ClientConfig is the payload of GET /api/config
type ClientConfig struct {
	Version    string     `json:"version"`
	MaxUsers   int        `json:"max_users"`
	MaxCameras int        `json:"max_cameras"`
	Turn       TurnConfig `json:"turn"`
}

// Captcha is the payload of GET /api/captcha
type Captcha struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

// HTTPClient talks to the relay's REST surface: configuration, captcha
// issuance, user count, and the one-shot leave beacon.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the relay REST endpoints
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) getJSON(path string, out interface{}) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return nil
}

// FetchConfig loads the relay configuration (TURN servers, room limits)
func (c *HTTPClient) FetchConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := c.getJSON("/api/config", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FetchCaptcha requests a fresh captcha challenge for the join form
func (c *HTTPClient) FetchCaptcha() (*Captcha, error) {
	captcha := &Captcha{}
	if err := c.getJSON("/api/captcha", captcha); err != nil {
		return nil, err
	}
	return captcha, nil
}

// FetchUserCount returns the number of participants currently in the room
func (c *HTTPClient) FetchUserCount() (int, error) {
	var payload struct {
		Count int `json:"count"`
	}
	if err := c.getJSON("/api/users/count", &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

// SendLeaveBeacon fires the one-shot out-of-band leave notification. Best
// effort: it runs independently of the signaling channel so the relay still
// learns about a departure when the websocket is already gone.
func (c *HTTPClient) SendLeaveBeacon(clientID string) error {
	body, err := json.Marshal(map[string]string{"client_id": clientID})
	if err != nil {
		return err
	}
	resp, err := c.client.Post(c.baseURL+"/api/leave", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("leave beacon: %w", err)
	}
	resp.Body.Close()
	return nil
}
