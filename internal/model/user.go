package model

// Role enumerates portal user roles.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// User is the authenticated portal user.
type User struct {
	ID    int64  `json:"id" validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role" validate:"required,oneof=STUDENT TEACHER ADMIN"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// LoginResponse is returned on a successful login. Token is optional.
type LoginResponse struct {
	User  User   `json:"user" validate:"required"`
	Token string `json:"token,omitempty"`
}

// ProfilePhotos are the illustrations a student can pick as profile photo.
var ProfilePhotos = []string{"profile_boy.png", "profile_boy2.png", "profile_girl.png", "profile_girl2.png"}

// ProfilePhotoRequest is the payload for POST /api/users/profile-photo.
type ProfilePhotoRequest struct {
	UserID int64  `json:"userId" validate:"required"`
	Photo  string `json:"profilePhoto" validate:"required,oneof=profile_boy.png profile_boy2.png profile_girl.png profile_girl2.png"`
}
