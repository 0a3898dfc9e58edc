package handler

type registerTutorRequest struct {
	CPF      string   `json:"cpf"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Phone    *string  `json:"phone,omitempty"`
	Address  *string  `json:"address,omitempty"`
	Clinics  []string `json:"clinics"`
}

type registerEmployeeRequest struct {
	CPF                      string  `json:"cpf"`
	Name                     string  `json:"name"`
	Email                    string  `json:"email"`
	Password                 string  `json:"password"`
	Role                     string  `json:"role"`
	ProfessionalRegistration *string `json:"professional_registration,omitempty"`
	AccessLevel              *int    `json:"access_level,omitempty"`
}

type loginRequest struct {
	CPF      string `json:"cpf" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// validateTokenRequest has no validate tags: the workflow reports a missing
// token itself, with the message callers rely on.
type validateTokenRequest struct {
	Token string `json:"token"`
}
