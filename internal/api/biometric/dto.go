package biometric

type RegisterCredentialRequest struct {
	EmployeeID   string `json:"employeeId" validate:"required"`
	CredentialID string `json:"credentialId" validate:"required"`
	PublicKey    string `json:"publicKey" validate:"required"`
	DeviceName   string `json:"deviceName" validate:"required"`
}

type CredentialResponse struct {
	CredentialID string `json:"credentialId"`
	DeviceName   string `json:"deviceName"`
	LastUsedAt   string `json:"lastUsedAt"`
	CreatedAt    string `json:"createdAt"`
}

type CredentialListResponse struct {
	Credentials []CredentialResponse `json:"credentials"`
}
