package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// maxUsernameAttempts bounds the suffix search in DeriveUsername.
const maxUsernameAttempts = 10000

// DeriveUsername returns the email's local-part as a handle, appending 1, 2, ...
// until taken reports the candidate free ("demo" -> "demo1").
func DeriveUsername(ctx context.Context, email string, taken func(context.Context, string) (bool, error)) (string, error) {
	base, err := emailLocalPart(email)
	if err != nil {
		return "", err
	}

	for i := 0; i < maxUsernameAttempts; i++ {
		candidate := base
		if i > 0 {
			candidate = base + strconv.Itoa(i)
		}
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free username for %q", base)
}

func emailLocalPart(email string) (string, error) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email[:at], nil
}
