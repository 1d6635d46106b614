package models

// CollectionLimit is the maximum number of members in a user collection.
const CollectionLimit = 50

// CollectionKind names one of the per-user ID collections.
type CollectionKind string

const (
	CollectionFavourites CollectionKind = "favourites"
	CollectionHistory    CollectionKind = "history"
)

// Valid reports whether k is a known collection.
func (k CollectionKind) Valid() bool {
	return k == CollectionFavourites || k == CollectionHistory
}

func (k CollectionKind) String() string { return string(k) }
