package domain

import "time"

const (
	UserTypeTutor    = "tutor"
	UserTypeEmployee = "employee"
)

// EmployeeStatusActive is the only status allowed to authenticate.
const EmployeeStatusActive = "active"

// DefaultAccessLevel is assigned when a registration omits the access level.
// An explicit 0 is stored as 0; only an absent value falls back to the default.
const DefaultAccessLevel = 1

// User is the identity record. Exactly one of Tutor or Employee is attached;
// a user with neither cannot authenticate.
type User struct {
	CPF          string    `json:"cpf"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RegisteredAt time.Time `json:"registered_at"`

	Tutor    *TutorProfile    `json:"tutor,omitempty"`
	Employee *EmployeeProfile `json:"employee,omitempty"`
}

// Type returns the user type derived from the attached profile, or an empty
// string for an orphan user.
func (u *User) Type() string {
	switch {
	case u.Employee != nil:
		return UserTypeEmployee
	case u.Tutor != nil:
		return UserTypeTutor
	default:
		return ""
	}
}

// Permissions derives the capability set granted at login time. Employees can
// see every animal and manage appointments; tutors are scoped to their own data.
func (u *User) Permissions() Permissions {
	if u.Employee != nil {
		return Permissions{
			AccessLevel:           u.Employee.AccessLevel,
			CanViewAllAnimals:     true,
			CanManageAppointments: true,
		}
	}
	return Permissions{}
}

// TutorProfile holds the pet-owner side of a user. A tutor is always linked
// to at least one clinic.
type TutorProfile struct {
	Phone   *string  `json:"phone"`
	Address *string  `json:"address"`
	Clinics []string `json:"clinics,omitempty"`
}

// EmployeeProfile holds the clinic-staff side of a user.
type EmployeeProfile struct {
	Role                     string  `json:"role"`
	ProfessionalRegistration *string `json:"professional_registration"`
	AccessLevel              int     `json:"access_level"`
	Status                   string  `json:"status"`
}

// Permissions are computed per login from the attached profile, never stored.
type Permissions struct {
	AccessLevel           int  `json:"access_level"`
	CanViewAllAnimals     bool `json:"can_view_all_animals"`
	CanManageAppointments bool `json:"can_manage_appointments"`
}

// TokenClaims is the payload embedded in a signed session token. UserType and
// AccessLevel are snapshots taken at issue time.
type TokenClaims struct {
	CPF         string `json:"cpf"`
	Email       string `json:"email"`
	UserType    string `json:"user_type"`
	AccessLevel int    `json:"access_level"`
}
