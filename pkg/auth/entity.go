package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/internship/pkg/workflow"
)

// Role определяет уровень доступа пользователя.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleAdmin     Role = "admin"
)

// User is a domain entity representing a system user. Status is the
// authoritative workflow stage of the candidate's application.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	Status       workflow.Status
	CreatedAt    time.Time
}
