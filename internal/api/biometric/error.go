package biometric

import "MarvelBackend/pkg/response"

var (
	ErrDuplicateCredential = response.NewError(409, "credential id already registered")
	ErrCredentialNotFound  = response.NewError(404, "credential not found")
	ErrInvalidCredential   = response.NewError(400, "invalid credential data")
)
