package internal

import (
	"fmt"
	"strings"
)

// CredentialEnvKey returns the environment variable key for an API
// token specific to the given hostname, following terraform's convention:
// periods are encoded as underscores and hyphens as double underscores.
func CredentialEnvKey(hostname string) string {
	encoded := strings.NewReplacer(".", "_", "-", "__").Replace(hostname)
	return fmt.Sprintf("TF_TOKEN_%s", encoded)
}
