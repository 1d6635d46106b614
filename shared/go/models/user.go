package models

import "time"

// User is a registered account. PasswordHash always holds a bcrypt digest.
type User struct {
	ID           string    `json:"id" bson:"-"`
	Username     string    `json:"userName" bson:"userName"`
	PasswordHash string    `json:"-" bson:"password"`
	Favourites   []string  `json:"favourites" bson:"favourites"`
	History      []string  `json:"history" bson:"history"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Items returns the collection of the given kind. The returned slice is never nil.
func (u *User) Items(kind CollectionKind) []string {
	var items []string
	switch kind {
	case CollectionFavourites:
		items = u.Favourites
	case CollectionHistory:
		items = u.History
	}
	if items == nil {
		return []string{}
	}
	return items
}
