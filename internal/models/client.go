package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// SafeSearch holds per-engine safe search switches
type SafeSearch struct {
	Enabled    bool `json:"enabled"`
	Bing       bool `json:"bing"`
	DuckDuckGo bool `json:"duckduckgo"`
	Ecosia     bool `json:"ecosia"`
	Google     bool `json:"google"`
	Pixabay    bool `json:"pixabay"`
	Yandex     bool `json:"yandex"`
	YouTube    bool `json:"youtube"`
}

// RawClientConfig is a client configuration as the backend sends it.
// Name packs "email||deviceName||deviceId".
type RawClientConfig struct {
	Disallowed              bool            `json:"disallowed"`
	SafeSearch              *SafeSearch     `json:"safe_search"`
	BlockedServicesSchedule json.RawMessage `json:"blocked_services_schedule,omitempty"`
	Name                    string          `json:"name"`
	BlockedServices         []string        `json:"blocked_services"`
	IDs                     []string        `json:"ids"`
	Tags                    []string        `json:"tags,omitempty"`
	Upstreams               []string        `json:"upstreams,omitempty"`
	FilteringEnabled        bool            `json:"filtering_enabled"`
	ParentalEnabled         bool            `json:"parental_enabled"`
	SafeSearchEnabled       bool            `json:"safesearch_enabled"`
	UseGlobalBlockedService bool            `json:"use_global_blocked_services"`
	UseGlobalSettings       bool            `json:"use_global_settings"`
	IgnoreQuerylog          *bool           `json:"ignore_querylog,omitempty"`
	IgnoreStatistics        *bool           `json:"ignore_statistics,omitempty"`
	UpstreamsCacheSize      int             `json:"upstreams_cache_size,omitempty"`
	UpstreamsCacheEnabled   *bool           `json:"upstreams_cache_enabled,omitempty"`

	// Extra keeps fields this type does not name, so a configuration
	// written back to the backend loses nothing
	Extra map[string]json.RawMessage `json:"-"`
}

// rawClientFields is the plain field set of RawClientConfig
type rawClientFields RawClientConfig

var knownClientKeys = jsonKeys(reflect.TypeFor[rawClientFields]())

func jsonKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}

func (c *RawClientConfig) UnmarshalJSON(data []byte) error {
	var fields rawClientFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	*c = RawClientConfig(fields)
	for key, value := range all {
		if knownClientKeys[key] {
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]json.RawMessage)
		}
		c.Extra[key] = value
	}
	return nil
}

func (c RawClientConfig) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(rawClientFields(c))
	if err != nil || len(c.Extra) == 0 {
		return data, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for key, value := range c.Extra {
		if _, ok := all[key]; !ok {
			all[key] = value
		}
	}
	return json.Marshal(all)
}

// Client is a filtered device as the dashboard presents it
type Client struct {
	ID                string       `json:"id"`
	Email             string       `json:"email"`
	DeviceName        string       `json:"deviceName"`
	DeviceID          string       `json:"deviceId"`
	Name              string       `json:"name"`
	BlockedServices   []string     `json:"blocked_services"`
	SafeSearch        *SafeSearch  `json:"safe_search"`
	FilteringEnabled  bool         `json:"filtering_enabled"`
	ParentalEnabled   bool         `json:"parental_enabled"`
	SafeSearchEnabled bool         `json:"safesearch_enabled"`
	IDs               []string     `json:"ids"`
	Status            DeviceStatus `json:"status"`
}

// Blocks reports whether serviceID is in the client's blocked list
func (c Client) Blocks(serviceID string) bool {
	for _, id := range c.BlockedServices {
		if id == serviceID {
			return true
		}
	}
	return false
}

// BlockedServicesResult is returned by a blocked-services update
type BlockedServicesResult struct {
	Success         bool     `json:"success"`
	ClientID        string   `json:"client_id"`
	BlockedServices []string `json:"blocked_services"`
}

// ToggleResult is returned by a single service toggle
type ToggleResult struct {
	Success   bool   `json:"success"`
	ClientID  string `json:"client_id"`
	ServiceID string `json:"service_id"`
	IsBlocked bool   `json:"is_blocked"`
}

// SafeSearchResult is returned by a safe search update
type SafeSearchResult struct {
	Success    bool        `json:"success"`
	ClientID   string      `json:"client_id"`
	SafeSearch *SafeSearch `json:"safe_search"`
}

// ClientEntry is one element of the /clients response
type ClientEntry struct {
	ID     string
	Config RawClientConfig
}

// ClientConfigList decodes the /clients response, an array of single-key
// objects mapping client id to configuration. Key order is preserved.
// A payload that is not an array decodes to an empty list.
type ClientConfigList []ClientEntry

func (l *ClientConfigList) UnmarshalJSON(data []byte) error {
	*l = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	for _, item := range items {
		entries, err := decodeOrderedEntries(item)
		if err != nil {
			return err
		}
		*l = append(*l, entries...)
	}
	return nil
}

func (l ClientConfigList) MarshalJSON() ([]byte, error) {
	items := make([]map[string]RawClientConfig, 0, len(l))
	for _, e := range l {
		items = append(items, map[string]RawClientConfig{e.ID: e.Config})
	}
	return json.Marshal(items)
}

func decodeOrderedEntries(item json.RawMessage) ([]ClientEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(item))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		// Skip non-object elements
		return nil, nil
	}

	var entries []ClientEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected client key %v", keyTok)
		}
		var cfg RawClientConfig
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode client %s: %w", key, err)
		}
		entries = append(entries, ClientEntry{ID: key, Config: cfg})
	}
	return entries, nil
}
