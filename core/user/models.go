package user

import (
	"github.com/trezcool/deptportal/core"
)

type Role string

// Roles
const (
	RoleStudent  Role = "student"
	RoleStaff    Role = "staff"
	RoleLecturer Role = "lecturer"
)

var AllRoles = []Role{RoleStudent, RoleStaff, RoleLecturer}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is the password-stripped identity exposed to callers and held in the session slot.
type User struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Role         Role     `json:"role"`
	Name         string   `json:"name"`
	ProfileImage string   `json:"profileImage,omitempty"`
	Department   string   `json:"department,omitempty"`
	StudentID    string   `json:"studentId,omitempty"`
	StaffID      string   `json:"staffId,omitempty"`
	Courses      []string `json:"courses,omitempty"`
}

var _ core.Person = User{}

func (u User) GetID() string { return u.ID }

func (u User) LogPerson() (id, username, email string) {
	return u.ID, u.Username, u.Email
}

func (u User) IsStudent() bool  { return u.Role == RoleStudent }
func (u User) IsStaff() bool    { return u.Role == RoleStaff }
func (u User) IsLecturer() bool { return u.Role == RoleLecturer }

// HasRole reports whether the user holds one of roles.
func (u User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// Account is a directory entry: a User with its password.
type Account struct {
	User
	Password string `json:"password"`
}

func (a Account) WithID(id string) Account {
	a.ID = id
	return a
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Username   string   `json:"username" validate:"required"`
	Password   string   `json:"password" validate:"required"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Role       Role     `json:"role" validate:"required,oneof=student staff lecturer"`
	Name       string   `json:"name" validate:"required"`
	Department string   `json:"department,omitempty"`
	StudentID  string   `json:"studentId,omitempty"`
	StaffID    string   `json:"staffId,omitempty"`
	Courses    []string `json:"courses,omitempty"`
}

// Validate only cleans surrounding whitespace: usernames and passwords are matched as typed.
func (nu *NewUser) Validate() error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email)
	return core.ValidateStruct(nu)
}

func (nu NewUser) account() Account {
	return Account{
		User: User{
			Username:   nu.Username,
			Email:      nu.Email,
			Role:       nu.Role,
			Name:       nu.Name,
			Department: nu.Department,
			StudentID:  nu.StudentID,
			StaffID:    nu.StaffID,
			Courses:    nu.Courses,
		},
		Password: nu.Password,
	}
}

// ProfileUpdate defines the profile fields a logged in User may change. Nil fields are left untouched.
type ProfileUpdate struct {
	Name         *string   `json:"name"`
	Email        *string   `json:"email" validate:"omitempty,email"`
	ProfileImage *string   `json:"profileImage" validate:"omitempty,datauri|url|startswith=/"`
	Department   *string   `json:"department"`
	StudentID    *string   `json:"studentId"`
	StaffID      *string   `json:"staffId"`
	Courses      *[]string `json:"courses"`
}

func (pu *ProfileUpdate) Validate() error {
	if pu.Name != nil {
		name := core.CleanString(*pu.Name)
		if name == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "name", Error: "this field cannot be blank"})
		}
		pu.Name = &name
	}
	if pu.Email != nil {
		email := core.CleanString(*pu.Email)
		pu.Email = &email
	}
	return core.ValidateStruct(pu)
}

func (pu ProfileUpdate) IsEmpty() bool {
	return pu.Name == nil && pu.Email == nil && pu.ProfileImage == nil && pu.Department == nil &&
		pu.StudentID == nil && pu.StaffID == nil && pu.Courses == nil
}

// apply merges the set fields into usr.
func (pu ProfileUpdate) apply(usr *User) {
	if pu.Name != nil {
		usr.Name = *pu.Name
	}
	if pu.Email != nil {
		usr.Email = *pu.Email
	}
	if pu.ProfileImage != nil {
		usr.ProfileImage = *pu.ProfileImage
	}
	if pu.Department != nil {
		usr.Department = *pu.Department
	}
	if pu.StudentID != nil {
		usr.StudentID = *pu.StudentID
	}
	if pu.StaffID != nil {
		usr.StaffID = *pu.StaffID
	}
	if pu.Courses != nil {
		usr.Courses = *pu.Courses
	}
}

// LoginCredentials are matched exactly (case-sensitive) against the directory.
type LoginCredentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (lc LoginCredentials) Validate() error { return core.ValidateStruct(lc) }
