package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialEnvKey(t *testing.T) {
	assert.Equal(t, "TF_TOKEN_app_terraform_io", CredentialEnvKey("app.terraform.io"))
	assert.Equal(t, "TF_TOKEN_my__tfe_example_com", CredentialEnvKey("my-tfe.example.com"))
}
