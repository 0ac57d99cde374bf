package services

import (
	"rentdesk/config"
	"rentdesk/internal/database"
)

type Service struct {
	Token       *TokenService
	Credential  *CredentialService
	Transaction *TransactionService
	Scheduler   *SchedulerService
}

func New(db database.DB, config config.Config) (Service, error) {
	transactionService := NewTransactionService(db)
	tokenService := NewTokenService(config)
	credentialService := NewCredentialService()
	schedulerService := NewSchedulerService()

	return Service{
		Token:       tokenService,
		Credential:  credentialService,
		Transaction: transactionService,
		Scheduler:   schedulerService,
	}, nil
}
