package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/internal/notifications"
	pkgauth "github.com/SaraKachchaf/flowermarketneo4j/pkg/auth"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph/models"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/mailer"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/security"
	"github.com/google/uuid"
)

const (
	invalidCredentialsMessage = "Email ou mot de passe incorrect"
	verificationCodeTTL       = 15 * time.Minute
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	RegisterPrestataire(ctx context.Context, req RegisterPrestataireRequest) (*MessageResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	SendVerification(ctx context.Context, req SendVerificationRequest) (*SendVerificationResponse, error)
	VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*VerifyEmailResponse, error)
	CurrentUser(ctx context.Context, userID string) (*MeResponse, error)
}

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type roleStore interface {
	Assign(ctx context.Context, userID string, role enums.Role) error
	RolesOf(ctx context.Context, userID string) ([]string, error)
}

type service struct {
	users  userStore
	roles  roleStore
	db     graph.Runner
	mail   mailer.Mailer
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserStore      userStore
	RoleStore      roleStore
	Graph          graph.Runner
	Mailer         mailer.Mailer
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Now            func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserStore == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if params.RoleStore == nil {
		return nil, fmt.Errorf("role store is required")
	}
	if params.Graph == nil {
		return nil, fmt.Errorf("graph runner is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		users:  params.UserStore,
		roles:  params.RoleStore,
		db:     params.Graph,
		mail:   params.Mailer,
		jwtCfg: params.JWTConfig,
		pwCfg:  params.PasswordConfig,
		now:    params.Now,
	}, nil
}

// Register creates a client account. Clients are approved immediately but must
// confirm their email with a mailed code before their first login.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email déjà utilisé")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	code, err := security.GenerateVerificationCode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating verification code")
	}
	expiry := s.now().Add(verificationCodeTTL)

	user := &models.User{
		ID:                          uuid.NewString(),
		UserName:                    req.Email,
		Email:                       req.Email,
		PasswordHash:                hash,
		FullName:                    req.FullName,
		IsApproved:                  true,
		EmailConfirmed:              false,
		EmailVerificationCode:       code,
		EmailVerificationCodeExpiry: &expiry,
		CreatedAt:                   s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.roles.Assign(ctx, user.ID, enums.RoleClient); err != nil {
		return nil, err
	}

	if err := s.mail.SendVerificationCode(ctx, user.Email, user.FullName, code); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sending verification email")
	}

	message := fmt.Sprintf("Le client %s (%s) vient de s'inscrire.", req.FullName, req.Email)
	if err := notifications.NotifyAdmin(ctx, s.db, "Nouveau Client", message); err != nil {
		return nil, err
	}

	return &RegisterResponse{
		Message:                   "Compte créé avec succès. Veuillez vérifier votre email.",
		RequiresEmailVerification: true,
		Email:                     user.Email,
	}, nil
}

// RegisterPrestataire creates a vendor account that stays locked out of login
// until an admin approves it.
func (s *service) RegisterPrestataire(ctx context.Context, req RegisterPrestataireRequest) (*MessageResponse, error) {
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email déjà utilisé")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     req.Email,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		IsApproved:   false,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.roles.Assign(ctx, user.ID, enums.RolePrestataire); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Le prestataire %s (%s) s'est inscrit et est en attente de validation.", req.FullName, req.Email)
	if err := notifications.NotifyAdmin(ctx, s.db, "Nouveau Prestataire", message); err != nil {
		return nil, err
	}

	return &MessageResponse{Message: "Demande envoyée. En attente de validation par l'admin."}, nil
}

// Login checks the email-confirmation gate (clients only), the password, and
// the vendor approval gate, in that order, before minting a token.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	roleNames, err := s.roles.RolesOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	role, ok := primaryRole(roleNames)

	if ok && role == enums.RoleClient && !user.EmailConfirmed {
		if err := s.issueVerificationCode(ctx, user); err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"Veuillez vérifier votre email avant de vous connecter. Un nouveau code a été envoyé.").
			WithDetails(map[string]any{
				"requiresEmailVerification": true,
				"email":                     user.Email,
			})
	}

	match, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "L'utilisateur n'a aucun rôle assigné")
	}

	if role == enums.RolePrestataire && !user.IsApproved {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "PENDING_APPROVAL").
			WithDetails(map[string]any{"isApproved": false})
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &LoginResponse{
		Token:          token,
		Role:           role.String(),
		FullName:       user.FullName,
		IsApproved:     user.IsApproved,
		EmailConfirmed: user.EmailConfirmed,
	}, nil
}

// SendVerification regenerates and mails a fresh 6-digit code.
func (s *service) SendVerification(ctx context.Context, req SendVerificationRequest) (*SendVerificationResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Utilisateur non trouvé")
	}

	if err := s.issueVerificationCode(ctx, user); err != nil {
		return nil, err
	}

	return &SendVerificationResponse{
		Message:   "Email de vérification envoyé",
		ExpiresIn: "15 minutes",
	}, nil
}

// VerifyEmail matches the code, enforces the expiry, then clears the code and
// flips the confirmation flag.
func (s *service) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*VerifyEmailResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Utilisateur non trouvé")
	}

	if user.EmailVerificationCode == "" || user.EmailVerificationCode != req.Code {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Code de vérification incorrect")
	}
	if user.EmailVerificationCodeExpiry == nil || user.EmailVerificationCodeExpiry.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Le code de vérification a expiré")
	}

	user.EmailConfirmed = true
	user.EmailVerificationCode = ""
	user.EmailVerificationCodeExpiry = nil
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return &VerifyEmailResponse{
		Success: true,
		Message: "Email vérifié avec succès",
		User: VerifiedUser{
			Email:          user.Email,
			FullName:       user.FullName,
			EmailConfirmed: true,
		},
	}, nil
}

// CurrentUser returns the profile for the authenticated subject.
func (s *service) CurrentUser(ctx context.Context, userID string) (*MeResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Utilisateur non trouvé")
	}

	roleNames, err := s.roles.RolesOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	role, _ := primaryRole(roleNames)

	return &MeResponse{
		ID:             user.ID,
		FullName:       user.FullName,
		Email:          user.Email,
		Role:           role.String(),
		IsApproved:     user.IsApproved,
		EmailConfirmed: user.EmailConfirmed,
	}, nil
}

func (s *service) issueVerificationCode(ctx context.Context, user *models.User) error {
	code, err := security.GenerateVerificationCode()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating verification code")
	}
	expiry := s.now().Add(verificationCodeTTL)

	user.EmailVerificationCode = code
	user.EmailVerificationCodeExpiry = &expiry
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mail.SendVerificationCode(ctx, user.Email, user.FullName, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sending verification email")
	}
	return nil
}

// primaryRole picks the single effective role from the stored memberships.
func primaryRole(names []string) (enums.Role, bool) {
	for _, name := range names {
		if role, err := enums.ParseRole(name); err == nil {
			return role, true
		}
	}
	return "", false
}
