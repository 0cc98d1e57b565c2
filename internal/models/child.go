package models

// BirthDateLayout is the accepted format for Child.BirthDate.
const BirthDateLayout = "2006-01-02"

// Child represents a toddler tracked by a user.
// Deleting a child removes all of its milestone records.
type Child struct {
	// ID is assigned by the store on creation.
	ID int64 `json:"childId"`

	// UserID is the owning user. Only that user may read or modify the child.
	UserID int64 `json:"-"`

	// Name is the child's display name. Required.
	Name string `json:"childName"`

	// BirthDate is formatted as YYYY-MM-DD, or nil when unknown.
	BirthDate *string `json:"birthDate"`

	CreatedAt int64 `json:"createdTimestamp"`
	UpdatedAt int64 `json:"updatedTimestamp"`
}
