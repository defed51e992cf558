package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole определяет роль пользователя.
type UserRole string

const (
	RoleClient      UserRole = "client"
	RoleCoordinator UserRole = "coordinator"
)

// ClientTypeOneTime - тип клиента по умолчанию, если категория не задана.
const ClientTypeOneTime = "one_time"

// User представляет пользователя системы (клиента или координатора).
type User struct {
	ID             uuid.UUID `db:"id"`
	Login          string    `db:"login"`
	PasswordHash   string    `db:"password_hash"`
	Name           string    `db:"name"`
	CompanyName    *string   `db:"company_name"`
	ClientCategory *string   `db:"client_category"`
	Role           UserRole  `db:"role"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// DisplayCompanyName возвращает название компании, а при его отсутствии - имя.
func (u *User) DisplayCompanyName() string {
	if u.CompanyName != nil && *u.CompanyName != "" {
		return *u.CompanyName
	}
	return u.Name
}

// ClientType возвращает категорию клиента или "one_time".
func (u *User) ClientType() string {
	if u.ClientCategory != nil && *u.ClientCategory != "" {
		return *u.ClientCategory
	}
	return ClientTypeOneTime
}

// IsCoordinator сообщает, может ли пользователь оформлять заказы за клиентов.
func (u *User) IsCoordinator() bool {
	return u.Role == RoleCoordinator
}

// RegisterRequest - запрос на регистрацию пользователя.
type RegisterRequest struct {
	Login          string  `json:"login"`
	Password       string  `json:"password"`
	Name           string  `json:"name"`
	CompanyName    *string `json:"company_name,omitempty"`
	ClientCategory *string `json:"client_category,omitempty"`
}

// LoginRequest - запрос на аутентификацию пользователя.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
