package identity

import (
	"context"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph/models"
	"github.com/google/uuid"
)

// RoleStore manages :Role nodes and HAS_ROLE edges. Membership always matches
// on normalizedName so casing in stored data never splits a role in two.
type RoleStore struct {
	db graph.Runner
}

func NewRoleStore(db graph.Runner) *RoleStore {
	return &RoleStore{db: db}
}

// Ensure creates the role node if it does not exist yet. Called at startup for
// the three built-in roles.
func (s *RoleStore) Ensure(ctx context.Context, role enums.Role) error {
	_, err := s.db.Run(ctx, `
		MERGE (r:Role {normalizedName: $normalizedName})
		ON CREATE SET r.id = $id, r.name = $name`, map[string]any{
		"normalizedName": role.Normalized(),
		"name":           role.String(),
		"id":             uuid.NewString(),
	})
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "ensuring role node")
	}
	return nil
}

// Assign links the user to the role, idempotently.
func (s *RoleStore) Assign(ctx context.Context, userID string, role enums.Role) error {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})
		MATCH (r:Role {normalizedName: $normalizedName})
		MERGE (u)-[:HAS_ROLE]->(r)
		RETURN r.name AS name`, map[string]any{
		"userId":         userID,
		"normalizedName": role.Normalized(),
	})
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "assigning role")
	}
	if len(rows) == 0 {
		return errors.New(errors.CodeNotFound, "utilisateur ou rôle introuvable")
	}
	return nil
}

// Remove drops the membership edge if present.
func (s *RoleStore) Remove(ctx context.Context, userID string, role enums.Role) error {
	_, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})-[hr:HAS_ROLE]->(r:Role {normalizedName: $normalizedName})
		DELETE hr`, map[string]any{
		"userId":         userID,
		"normalizedName": role.Normalized(),
	})
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "removing role")
	}
	return nil
}

// IsInRole reports membership for one user/role pair.
func (s *RoleStore) IsInRole(ctx context.Context, userID string, role enums.Role) (bool, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})-[:HAS_ROLE]->(r:Role {normalizedName: $normalizedName})
		RETURN r.name AS name`, map[string]any{
		"userId":         userID,
		"normalizedName": role.Normalized(),
	})
	if err != nil {
		return false, errors.Wrap(errors.CodeDependency, err, "checking role membership")
	}
	return len(rows) > 0, nil
}

// RolesOf returns the role names the user carries.
func (s *RoleStore) RolesOf(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})-[:HAS_ROLE]->(r:Role)
		RETURN r.name AS name`, map[string]any{"userId": userID})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing user roles")
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// UsersInRole returns every user holding the role.
func (s *RoleStore) UsersInRole(ctx context.Context, role enums.Role) ([]*models.User, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User)-[:HAS_ROLE]->(r:Role {normalizedName: $normalizedName})
		RETURN u`, map[string]any{"normalizedName": role.Normalized()})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing users in role")
	}
	users := make([]*models.User, 0, len(rows))
	for _, row := range rows {
		if user := models.UserFromNode(row["u"]); user != nil {
			users = append(users, user)
		}
	}
	return users, nil
}
