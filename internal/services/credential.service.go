package services

import (
	"rentdesk/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// CredentialService hashes and verifies passwords. It never stores
// anything; callers persist the hash on the User record.
type CredentialService struct {
	cost int
	log  logger.Logger
}

func NewCredentialService() *CredentialService {
	return &CredentialService{
		cost: bcrypt.DefaultCost,
		log:  logger.New("credentialService"),
	}
}

func (s *CredentialService) HashPassword(password string) (string, error) {
	log := s.log.Function("HashPassword")

	if password == "" {
		return "", log.ErrMsg("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", log.Err("failed to hash password", err)
	}

	return string(hash), nil
}

// VerifyPassword returns true when the password matches the stored hash.
func (s *CredentialService) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
