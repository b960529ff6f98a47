package store

import "time"

type Post struct {
	ID        int64
	Permalink string
	Title     string
	Author    string
	Body      string
	Tags      []string
	Comments  []Comment
	CreatedAt time.Time
}

// Comment lives and dies with its parent post. Email is "" when the commenter
// supplied none; the row stores NULL in that case.
type Comment struct {
	Author string
	Email  string
	Body   string
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}
