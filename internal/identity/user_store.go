package identity

import (
	"context"
	"strings"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph/models"
)

// UserStore persists :User nodes. Every method serializes the full record so
// a write never leaves a node with a partial property set.
type UserStore struct {
	db graph.Runner
}

func NewUserStore(db graph.Runner) *UserStore {
	return &UserStore{db: db}
}

func userParams(user *models.User) map[string]any {
	return map[string]any{
		"id":                          user.ID,
		"userName":                    user.UserName,
		"normalizedUserName":          strings.ToUpper(user.UserName),
		"email":                       user.Email,
		"normalizedEmail":             strings.ToUpper(user.Email),
		"passwordHash":                user.PasswordHash,
		"fullName":                    user.FullName,
		"isApproved":                  user.IsApproved,
		"emailConfirmed":              user.EmailConfirmed,
		"emailVerificationCode":       user.EmailVerificationCode,
		"emailVerificationCodeExpiry": graph.FormatOptionalTime(user.EmailVerificationCodeExpiry),
		"createdAt":                   graph.FormatTime(user.CreatedAt),
	}
}

// Create writes a new :User node. Uniqueness of the email is the caller's
// responsibility; the store only persists.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	_, err := s.db.Run(ctx, `
		CREATE (u:User {
			id: $id,
			userName: $userName,
			normalizedUserName: $normalizedUserName,
			email: $email,
			normalizedEmail: $normalizedEmail,
			passwordHash: $passwordHash,
			fullName: $fullName,
			isApproved: $isApproved,
			emailConfirmed: $emailConfirmed,
			emailVerificationCode: $emailVerificationCode,
			emailVerificationCodeExpiry: $emailVerificationCodeExpiry,
			createdAt: $createdAt
		})`, userParams(user))
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "creating user node")
	}
	return nil
}

// Update overwrites every mutable property of the user node.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $id})
		SET u.userName = $userName,
			u.normalizedUserName = $normalizedUserName,
			u.email = $email,
			u.normalizedEmail = $normalizedEmail,
			u.passwordHash = $passwordHash,
			u.fullName = $fullName,
			u.isApproved = $isApproved,
			u.emailConfirmed = $emailConfirmed,
			u.emailVerificationCode = $emailVerificationCode,
			u.emailVerificationCodeExpiry = $emailVerificationCodeExpiry
		RETURN u.id AS id`, userParams(user))
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "updating user node")
	}
	if len(rows) == 0 {
		return errors.New(errors.CodeNotFound, "utilisateur introuvable")
	}
	return nil
}

// FindByID returns the user or nil when the node does not exist.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $id})
		RETURN u`, map[string]any{"id": id})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading user by id")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return models.UserFromNode(rows[0]["u"]), nil
}

// FindByEmail matches on the normalized (upper-cased) email, nil when absent.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User {normalizedEmail: $normalizedEmail})
		RETURN u`, map[string]any{"normalizedEmail": strings.ToUpper(email)})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading user by email")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return models.UserFromNode(rows[0]["u"]), nil
}

// FindByName matches on the normalized user name. User names are emails in
// this system, but legacy nodes may differ, so the lookup stays separate.
func (s *UserStore) FindByName(ctx context.Context, name string) (*models.User, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User {normalizedUserName: $normalizedUserName})
		RETURN u`, map[string]any{"normalizedUserName": strings.ToUpper(name)})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading user by name")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return models.UserFromNode(rows[0]["u"]), nil
}

// Delete removes the user node and all of its relationships.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.Run(ctx, `
		MATCH (u:User {id: $id})
		DETACH DELETE u`, map[string]any{"id": id})
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting user node")
	}
	return nil
}
