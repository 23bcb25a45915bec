// Package feed streams live champ-select sessions from the League
// client's local websocket API and translates them into draft states,
// so an advisor can score the draft as it develops.
package feed

import (
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"draftsage/internal/draft"
)

// Event types on the client websocket protocol.
const (
	eventTypeSubscribe = 5
	eventTypeEvent     = 8
)

const champSelectEvent = "OnJsonApiEvent_lol-champ-select_v1_session"

// Credentials locate the local client API. The caller supplies them;
// this package does no lockfile discovery.
type Credentials struct {
	Host  string
	Port  string
	Token string
}

// Handler receives the translated draft on every session update.
// active is false once champ select ends.
type Handler func(d *draft.State, active bool)

// Client maintains the websocket subscription.
type Client struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	stop      chan struct{}
	handler   Handler
}

// NewClient creates a disconnected feed client.
func NewClient(handler Handler) *Client {
	return &Client{
		handler: handler,
		stop:    make(chan struct{}),
	}
}

// Connect dials the client websocket and subscribes to champ-select
// session events. The local API uses a self-signed certificate.
func (c *Client) Connect(creds Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	dialer := websocket.Dialer{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	url := fmt.Sprintf("wss://%s:%s", creds.Host, creds.Port)
	header := http.Header{}
	auth := base64.StdEncoding.EncodeToString([]byte("riot:" + creds.Token))
	header.Set("Authorization", "Basic "+auth)

	conn, _, err := dialer.Dial(url, header)
	if err != nil {
		return fmt.Errorf("failed to connect to client websocket: %w", err)
	}

	if err := conn.WriteJSON([]interface{}{eventTypeSubscribe, champSelectEvent}); err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to champ select: %w", err)
	}

	c.conn = conn
	c.connected = true
	go c.listen()
	return nil
}

// Disconnect closes the subscription.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	close(c.stop)
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
	c.stop = make(chan struct{})
}

// IsConnected reports whether the subscription is live.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) listen() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		if c.conn != nil {
			c.conn.Close()
		}
		c.mu.Unlock()
	}()

	for {
		select {
		case <-c.stop:
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			c.handleMessage(message)
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) < 3 {
		return
	}

	var eventType int
	if err := json.Unmarshal(raw[0], &eventType); err != nil || eventType != eventTypeEvent {
		return
	}

	var eventName string
	if err := json.Unmarshal(raw[1], &eventName); err != nil || eventName != champSelectEvent {
		return
	}

	var payload struct {
		EventType string          `json:"eventType"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw[2], &payload); err != nil || c.handler == nil {
		return
	}

	switch payload.EventType {
	case "Create", "Update":
		var s session
		if err := json.Unmarshal(payload.Data, &s); err != nil {
			fmt.Printf("[Feed] failed to parse session: %v\n", err)
			return
		}
		c.handler(s.toDraft(), true)
	case "Delete":
		c.handler(nil, false)
	}
}

// session is the subset of the champ-select payload the draft needs.
type session struct {
	MyTeam    []player   `json:"myTeam"`
	TheirTeam []player   `json:"theirTeam"`
	Actions   [][]action `json:"actions"`
}

type player struct {
	CellID           int    `json:"cellId"`
	ChampionID       int    `json:"championId"`
	AssignedPosition string `json:"assignedPosition"`
	Team             int    `json:"team"`
}

type action struct {
	ActorCellID int    `json:"actorCellId"`
	ChampionID  int    `json:"championId"`
	Type        string `json:"type"` // "pick", "ban"
	Completed   bool   `json:"completed"`
}

// toDraft maps the session onto a draft state. Team 1 is blue; cells
// 0-4 belong to team 1 and 5-9 to team 2, which routes completed bans.
func (s *session) toDraft() *draft.State {
	d := draft.NewState()

	place := func(players []player) {
		for _, p := range players {
			if p.ChampionID == 0 {
				continue
			}
			role, err := draft.RoleFromString(p.AssignedPosition)
			if err != nil {
				continue
			}
			side := draft.Blue
			if p.Team == 2 {
				side = draft.Red
			}
			d.Picks[side][role] = p.ChampionID
		}
	}
	place(s.MyTeam)
	place(s.TheirTeam)

	for _, group := range s.Actions {
		for _, a := range group {
			if a.Type != "ban" || !a.Completed || a.ChampionID == 0 {
				continue
			}
			side := draft.Blue
			if a.ActorCellID >= 5 {
				side = draft.Red
			}
			d.RawBans[side] = append(d.RawBans[side], a.ChampionID)
		}
	}
	return d
}
