package models

// Post is the flat snapshot of a WordPress post used across the bot.
// The edit workflow keeps the pre-edit snapshot immutably for diffing.
type Post struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
	Link    string `json:"link"`
}

// PostSummary is a shortened post representation for listings
type PostSummary struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Link   string `json:"link"`
	Date   string `json:"date"`
}

// PostUpdate carries the fields of an existing post to overwrite
type PostUpdate struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Category represents a WordPress category
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
