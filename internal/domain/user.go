package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("record not found")

// User is the marketplace identity. Buyers and sellers (artists) share the same table;
// IsArtist distinguishes the two roles.
type User struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	IsActive          bool
	IsArtist          bool
	FirstName         string
	LastName          string
	Bio               string
	Website           string
	ProfilePictureURL string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ArtistProfile is the storefront owned by a seller.
type ArtistProfile struct {
	ID                  string
	UserID              string
	StoreName           string
	Slug                string
	About               string
	BannerImageURL      string
	PaymentKeyEncrypted []byte
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasPaymentKey reports whether the seller configured a payment provider key.
func (a *ArtistProfile) HasPaymentKey() bool {
	return a != nil && len(a.PaymentKeyEncrypted) > 0
}

// ProfileKind tags which variant a Profile holds.
type ProfileKind string

const (
	ProfileKindBuyer  ProfileKind = "buyer"
	ProfileKindSeller ProfileKind = "seller"
)

// Profile is either a buyer (User only) or a seller (User plus ArtistProfile).
type Profile struct {
	Kind   ProfileKind
	User   *User
	Artist *ArtistProfile
}

// NewBuyerProfile builds the buyer variant.
func NewBuyerProfile(user *User) Profile {
	return Profile{Kind: ProfileKindBuyer, User: user}
}

// NewSellerProfile builds the seller variant.
func NewSellerProfile(user *User, artist *ArtistProfile) Profile {
	return Profile{Kind: ProfileKindSeller, User: user, Artist: artist}
}

// ErrConflict is returned by repositories when a unique constraint is violated.
var ErrConflict = errors.New("record already exists")
