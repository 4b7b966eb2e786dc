package models

import (
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
)

// User mirrors the :User node. Identity fields follow the generic
// user/role/password/email store contract the auth layer expects.
type User struct {
	ID                          string     `json:"id"`
	UserName                    string     `json:"userName"`
	NormalizedUserName          string     `json:"normalizedUserName"`
	Email                       string     `json:"email"`
	NormalizedEmail             string     `json:"normalizedEmail"`
	PasswordHash                string     `json:"-"`
	FullName                    string     `json:"fullName"`
	IsApproved                  bool       `json:"isApproved"`
	EmailConfirmed              bool       `json:"emailConfirmed"`
	EmailVerificationCode       string     `json:"-"`
	EmailVerificationCodeExpiry *time.Time `json:"-"`
	CreatedAt                   time.Time  `json:"createdAt"`
}

// UserFromNode maps a :User node value into a record, defaulting every
// optional property so legacy-shaped nodes never panic the mapper.
func UserFromNode(value any) *User {
	props, ok := graph.NodeProps(value)
	if !ok {
		return nil
	}
	return &User{
		ID:                          graph.StringProp(props, "id"),
		UserName:                    graph.StringProp(props, "userName"),
		NormalizedUserName:          graph.StringProp(props, "normalizedUserName"),
		Email:                       graph.StringProp(props, "email"),
		NormalizedEmail:             graph.StringProp(props, "normalizedEmail"),
		PasswordHash:                graph.StringProp(props, "passwordHash"),
		FullName:                    graph.StringProp(props, "fullName"),
		IsApproved:                  graph.BoolProp(props, "isApproved"),
		EmailConfirmed:              graph.BoolProp(props, "emailConfirmed"),
		EmailVerificationCode:       graph.StringProp(props, "emailVerificationCode"),
		EmailVerificationCodeExpiry: graph.OptionalTimeProp(props, "emailVerificationCodeExpiry"),
		CreatedAt:                   graph.TimeProp(props, "createdAt"),
	}
}
