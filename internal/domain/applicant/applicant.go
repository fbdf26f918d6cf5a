package applicant

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Applicant struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"fullName"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	MaritalStatus string    `json:"maritalStatus"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phoneNumber"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewApplicant(fullName string, age int, gender, maritalStatus, email, phoneNumber string) *Applicant {
	now := time.Now().UTC()
	return &Applicant{
		ID:            uuid.New(),
		FullName:      strings.TrimSpace(fullName),
		Age:           age,
		Gender:        gender,
		MaritalStatus: maritalStatus,
		Email:         NormalizeEmail(email),
		PhoneNumber:   strings.TrimSpace(phoneNumber),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NormalizeEmail is the form under which email uniqueness is enforced.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
