// Package catalog holds the known blockable services and the functions that
// turn backend client configurations into dashboard clients and services.
package catalog

import (
	"filternet/internal/models"
)

// ServiceInfo describes one blockable service
type ServiceInfo struct {
	ID       string
	Name     string
	Icon     string
	Gradient string
	Category string
}

// Services is the catalog in display order
var Services = []ServiceInfo{
	{ID: "amazon_streaming", Name: "Amazon Prime Video", Icon: "📺", Gradient: "linear-gradient(135deg, #00A8E1, #0080B3)", Category: "streaming"},
	{ID: "apple_streaming", Name: "Apple TV+", Icon: "📺", Gradient: "linear-gradient(135deg, #000000, #333333)", Category: "streaming"},
	{ID: "instagram", Name: "Instagram", Icon: "📷", Gradient: "linear-gradient(135deg, #E4405F, #C13584)", Category: "social"},
	{ID: "tiktok", Name: "TikTok", Icon: "🎵", Gradient: "linear-gradient(135deg, #000000, #EE1D52)", Category: "social"},
	{ID: "amazon", Name: "Amazon", Icon: "📦", Gradient: "linear-gradient(135deg, #FF9900, #E68A00)", Category: "shopping"},
	{ID: "ebay", Name: "eBay", Icon: "🛍️", Gradient: "linear-gradient(135deg, #E53238, #0064D2)", Category: "shopping"},
	{ID: "facebook", Name: "Facebook", Icon: "📘", Gradient: "linear-gradient(135deg, #1877F2, #0C63D4)", Category: "social"},
	{ID: "netflix", Name: "Netflix", Icon: "🎬", Gradient: "linear-gradient(135deg, #E50914, #B20710)", Category: "streaming"},
	{ID: "roblox", Name: "Roblox", Icon: "🎮", Gradient: "linear-gradient(135deg, #000000, #333333)", Category: "gaming"},
	{ID: "whatsapp", Name: "WhatsApp", Icon: "💬", Gradient: "linear-gradient(135deg, #25D366, #128C7E)", Category: "messaging"},
	{ID: "youtube", Name: "YouTube", Icon: "📺", Gradient: "linear-gradient(135deg, #FF0000, #CC0000)", Category: "streaming"},
}

// categoryOrder is the order in which service groups are rendered
var categoryOrder = []string{"streaming", "social", "gaming", "shopping", "messaging", "other"}

var categoryNames = map[string]string{
	"streaming": "Streaming Services",
	"social":    "Social Media",
	"gaming":    "Gaming",
	"shopping":  "Shopping",
	"messaging": "Messaging",
	"other":     "Other Services",
}

// Lookup returns the catalog entry for id
func Lookup(id string) (ServiceInfo, bool) {
	for _, s := range Services {
		if s.ID == id {
			return s, true
		}
	}
	return ServiceInfo{}, false
}

// CategoryName returns the heading for a category key
func CategoryName(category string) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return categoryNames["other"]
}

// ServicesWithStatus lists every catalog service with its blocked state for
// a client. Blocked ids that are not in the catalog are not shown.
func ServicesWithStatus(blocked []string) []models.Service {
	set := make(map[string]bool, len(blocked))
	for _, id := range blocked {
		set[id] = true
	}

	services := make([]models.Service, 0, len(Services))
	for _, info := range Services {
		isBlocked := set[info.ID]
		status := models.ServiceAllowed
		if isBlocked {
			status = models.ServiceBlocked
		}
		services = append(services, models.Service{
			ID:        info.ID,
			Name:      info.Name,
			Icon:      info.Icon,
			Gradient:  info.Gradient,
			Category:  info.Category,
			Status:    status,
			IsBlocked: isBlocked,
		})
	}
	return services
}

// BlockedIDs returns the ids of the blocked services, in catalog order
func BlockedIDs(services []models.Service) []string {
	var ids []string
	for _, s := range services {
		if s.IsBlocked {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// ServiceGroup is a category heading with its services
type ServiceGroup struct {
	Category string
	Title    string
	Services []models.Service
}

// GroupByCategory buckets services under their category headings, skipping
// empty categories.
func GroupByCategory(services []models.Service) []ServiceGroup {
	buckets := make(map[string][]models.Service)
	for _, s := range services {
		key := s.Category
		if _, ok := categoryNames[key]; !ok {
			key = "other"
		}
		buckets[key] = append(buckets[key], s)
	}

	var groups []ServiceGroup
	for _, key := range categoryOrder {
		if len(buckets[key]) == 0 {
			continue
		}
		groups = append(groups, ServiceGroup{Category: key, Title: categoryNames[key], Services: buckets[key]})
	}
	return groups
}

// SetMembership returns list with id present or absent. The input slice is
// never modified and the result is a fresh slice.
func SetMembership(list []string, id string, present bool) []string {
	out := make([]string, 0, len(list)+1)
	found := false
	for _, existing := range list {
		if existing == id {
			if present && !found {
				out = append(out, existing)
			}
			found = true
			continue
		}
		out = append(out, existing)
	}
	if present && !found {
		out = append(out, id)
	}
	return out
}
