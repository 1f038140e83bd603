package users

// updateProfileRequest carries an optional subset of profile fields.
type updateProfileRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=2,max=100"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}
