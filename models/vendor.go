package models

import (
	"time"
)

type Vendor struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	ContactName string    `json:"contact_name,omitempty" db:"contact_name"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	Email       string    `json:"email,omitempty" db:"email"`
	ShareToken  string    `json:"share_token" db:"share_token"`
	Created     time.Time `json:"created" db:"created"`
	Updated     time.Time `json:"updated" db:"updated"`
}

// ShareURL builds the public dashboard link for the vendor.
func (v Vendor) ShareURL(baseURL string) string {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return baseURL + "/v/" + v.ShareToken
}
