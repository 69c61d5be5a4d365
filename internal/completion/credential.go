package completion

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultTokenFile is looked up relative to the working directory.
const DefaultTokenFile = "openai.token"

// ErrCredentialMissing is wrapped by LoadCredential when no usable token exists.
var ErrCredentialMissing = errors.New("credential missing")

// LoadCredential reads the API token from path, trimmed of surrounding
// whitespace. A missing, unreadable or blank file yields KindCredentialMissing.
func LoadCredential(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Kind: KindCredentialMissing, Err: fmt.Errorf("%w: %w", ErrCredentialMissing, err)}
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", &Error{Kind: KindCredentialMissing, Err: fmt.Errorf("%w: %s is empty", ErrCredentialMissing, path)}
	}
	return token, nil
}

// SaveCredential writes token to path with owner-only permissions.
func SaveCredential(path, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	return os.WriteFile(path, []byte(token+"\n"), 0600)
}

// MissingCredentialMessage is the text of the startup alert.
func MissingCredentialMessage(path string) string {
	return fmt.Sprintf("OpenAI token was not found.\nPlease add it to a file named `%s`.\n\nThis app will now exit.", path)
}
