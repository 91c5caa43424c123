package domain

import (
	"fmt"
	"strings"
)

type ClientType int

const (
	ClientIndividual ClientType = 1
	ClientBusiness   ClientType = 2
)

func (t ClientType) Valid() bool {
	return t == ClientIndividual || t == ClientBusiness
}

func (t ClientType) String() string {
	switch t {
	case ClientIndividual:
		return "INDIVIDUAL"
	case ClientBusiness:
		return "BUSINESS"
	}
	return fmt.Sprintf("ClientType(%d)", int(t))
}

type Role int

const (
	RoleAdmin  Role = 1
	RoleClient Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ROLE_ADMIN"
	case RoleClient:
		return "ROLE_CLIENT"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole accepts both the full name ("ROLE_ADMIN") and the short one ("admin").
func ParseRole(s string) (Role, bool) {
	switch strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_") {
	case "ADMIN":
		return RoleAdmin, true
	case "CLIENT":
		return RoleClient, true
	}
	return 0, false
}

type Client struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:120;not null" json:"name"`
	Email        string     `gorm:"size:140;uniqueIndex;not null" json:"email"`
	TaxID        string     `gorm:"size:20" json:"taxId"`
	Type         ClientType `gorm:"not null" json:"type"`
	PasswordHash string     `gorm:"size:80" json:"-"`
	Roles        []Role     `gorm:"type:text;serializer:json" json:"-"`
	Phones       []string   `gorm:"type:text;serializer:json" json:"phones"`
	Addresses    []Address  `gorm:"constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
}

func (c *Client) HasRole(r Role) bool {
	for _, have := range c.Roles {
		if have == r {
			return true
		}
	}
	return false
}

func (c *Client) AddRole(r Role) {
	if !c.HasRole(r) {
		c.Roles = append(c.Roles, r)
	}
}

type Address struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Street     string `gorm:"size:140" json:"street"`
	Number     string `gorm:"size:20" json:"number"`
	Complement string `gorm:"size:80" json:"complement,omitempty"`
	District   string `gorm:"size:80" json:"district"`
	ZipCode    string `gorm:"size:12" json:"zipCode"`
	ClientID   uint   `gorm:"index;not null" json:"-"`
	CityID     uint   `gorm:"index;not null" json:"-"`
	City       *City  `json:"city,omitempty"`
}
