package chat

import (
	"encoding/json"
	"fmt"
	"os"
)

// CatalogRoom is a static catalog entry. Live state (members, typing,
// history) lives on the coordinator and is created lazily on first join.
type CatalogRoom struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Catalog is the read-mostly room directory, loaded once at startup.
// Catalog rooms never disappear, even with zero members.
type Catalog struct {
	rooms []CatalogRoom
	byID  map[string]CatalogRoom
}

func NewCatalog(rooms []CatalogRoom) *Catalog {
	c := &Catalog{
		rooms: append([]CatalogRoom(nil), rooms...),
		byID:  make(map[string]CatalogRoom, len(rooms)),
	}
	for _, room := range rooms {
		c.byID[room.ID] = room
	}
	return c
}

// LoadCatalog reads a JSON array of catalog entries from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading room catalog: %w", err)
	}
	var rooms []CatalogRoom
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, fmt.Errorf("parsing room catalog %s: %w", path, err)
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("room catalog %s contains no rooms", path)
	}
	return NewCatalog(rooms), nil
}

// Get resolves a catalog entry by id.
func (c *Catalog) Get(id string) (CatalogRoom, bool) {
	room, ok := c.byID[id]
	return room, ok
}

// Rooms returns the catalog entries in their configured order.
func (c *Catalog) Rooms() []CatalogRoom {
	return append([]CatalogRoom(nil), c.rooms...)
}

// DefaultCatalog is the built-in ChatKaro room list, used when no catalog
// file is configured.
func DefaultCatalog() *Catalog {
	return NewCatalog([]CatalogRoom{
		{ID: "general", Name: "General Chat", Category: "Social", Description: "Open chat for everyone"},
		{ID: "friends", Name: "Friendship Zone", Category: "Social", Description: "Make new friends"},
		{ID: "singles", Name: "Singles Chat", Category: "Social", Description: "Meet other singles"},
		{ID: "delhi", Name: "Delhi Chat", Category: "Regional", Description: "Chat with people from Delhi"},
		{ID: "mumbai", Name: "Mumbai Chat", Category: "Regional", Description: "Chat with people from Mumbai"},
		{ID: "bangalore", Name: "Bangalore Chat", Category: "Regional", Description: "Chat with people from Bangalore"},
		{ID: "kolkata", Name: "Kolkata Chat", Category: "Regional", Description: "Chat with people from Kolkata"},
		{ID: "chennai", Name: "Chennai Chat", Category: "Regional", Description: "Chat with people from Chennai"},
		{ID: "music", Name: "Music Lovers", Category: "Entertainment", Description: "Talk about your favourite music"},
		{ID: "movies", Name: "Movie Buffs", Category: "Entertainment", Description: "Bollywood, Hollywood and beyond"},
		{ID: "cricket", Name: "Cricket Fans", Category: "Entertainment", Description: "Live match talk and cricket banter"},
		{ID: "students", Name: "Student Hangout", Category: "Education", Description: "College life and study chat"},
		{ID: "exams", Name: "Exam Prep", Category: "Education", Description: "Preparation tips and doubts"},
		{ID: "usa", Name: "USA Chat", Category: "International", Description: "Chat with people from the USA"},
		{ID: "global", Name: "Global Lounge", Category: "International", Description: "Chat with people worldwide"},
	})
}
