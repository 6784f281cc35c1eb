package application

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type profileRules struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=0"`
}

type passwordRules struct {
	Password string `json:"password" validate:"required,pwd"`
}

// normalize applies the field transforms that run before validation.
func normalize(u *entity.User) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = normalizeEmail(u.Email)
	if u.PasswordChanged() {
		u.SetPassword(strings.TrimSpace(u.Password))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkUser evaluates the rule set and returns every violation at once.
// The password is only checked while it still holds plaintext.
func checkUser(v *validator.Validate, u *entity.User) error {
	fields := map[string]string{}

	if err := v.Struct(profileRules{Name: u.Name, Email: u.Email, Age: u.Age}); err != nil {
		for k, msg := range validation.ToDetails(err) {
			fields[k] = msg
		}
	}
	if u.PasswordChanged() {
		if err := v.Struct(passwordRules{Password: u.Password}); err != nil {
			for k, msg := range validation.ToDetails(err) {
				fields[k] = msg
			}
		} else if len(u.Password) > maxPasswordBytes {
			fields["password"] = "must be at most 72 bytes long"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
