package model

import "time"

const (
	MemberTypePerson = "person"
	MemberTypePet    = "pet"
)

// FamilyMember is anyone an obligation can be assigned to: a person or a pet.
type FamilyMember struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	MemberType string    `json:"member_type"`
	PetType    string    `json:"pet_type,omitempty"`
	SortOrder  int       `json:"sort_order"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
