package auth

// RegisterRequest is the client sign-up payload.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// RegisterPrestataireRequest is the vendor sign-up payload.
type RegisterPrestataireRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest carries the credentials for both audiences.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SendVerificationRequest asks for a fresh email-verification code.
type SendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyEmailRequest confirms ownership of the address with the mailed code.
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// RegisterResponse tells the client whether a verification step follows.
type RegisterResponse struct {
	Message                   string `json:"message"`
	RequiresEmailVerification bool   `json:"requiresEmailVerification"`
	Email                     string `json:"email"`
}

// MessageResponse is the generic acknowledgement envelope body.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries the signed token plus the profile flags the frontend
// branches on.
type LoginResponse struct {
	Token          string `json:"token"`
	Role           string `json:"role"`
	FullName       string `json:"fullName"`
	IsApproved     bool   `json:"isApproved"`
	EmailConfirmed bool   `json:"emailConfirmed"`
}

// SendVerificationResponse acknowledges a mailed code.
type SendVerificationResponse struct {
	Message   string `json:"message"`
	ExpiresIn string `json:"expiresIn"`
}

// VerifiedUser is the trimmed profile returned after verification.
type VerifiedUser struct {
	Email          string `json:"email"`
	FullName       string `json:"fullName"`
	EmailConfirmed bool   `json:"emailConfirmed"`
}

// VerifyEmailResponse reports a successful confirmation.
type VerifyEmailResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    VerifiedUser `json:"user"`
}

// MeResponse is the authenticated profile snapshot.
type MeResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	IsApproved     bool   `json:"isApproved"`
	EmailConfirmed bool   `json:"emailConfirmed"`
}
