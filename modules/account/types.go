package account

import "time"

// PendingToken is a one-time secret and its expiry. A user holds at most one
// per purpose; the pair is set and cleared as a unit.
type PendingToken struct {
	Token     string    `bson:"token" json:"-"`
	ExpiresAt time.Time `bson:"expiresAt" json:"-"`
}

// Valid reports whether the token is still usable at now.
// A token expiring exactly at now is still valid.
func (p *PendingToken) Valid(now time.Time) bool {
	return p != nil && p.Token != "" && !now.After(p.ExpiresAt)
}

// User is the persisted account record.
type User struct {
	ID            string        `bson:"_id"`
	Name          string        `bson:"name"`
	Email         string        `bson:"email"`
	PasswordHash  string        `bson:"password"`
	IsVerified    bool          `bson:"isVerified"`
	Verification  *PendingToken `bson:"verification,omitempty"`
	PasswordReset *PendingToken `bson:"passwordReset,omitempty"`
	LastLogin     time.Time     `bson:"lastLogin"`
	CreatedAt     time.Time     `bson:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt"`
	Version       int64         `bson:"version"`
}

// Profile returns the public projection of u.
func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// clone returns a deep copy so stores never share pending tokens with callers.
func (u *User) clone() *User {
	c := *u
	if u.Verification != nil {
		v := *u.Verification
		c.Verification = &v
	}
	if u.PasswordReset != nil {
		r := *u.PasswordReset
		c.PasswordReset = &r
	}
	return &c
}

// Profile is the user as exposed to clients. It never carries the password
// hash or pending tokens.
type Profile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	LastLogin  time.Time `json:"lastLogin"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Session is returned by operations that authenticate the caller.
type Session struct {
	Profile   Profile
	Token     string
	ExpiresAt time.Time
}
