package repositories

import (
	"context"
	"fmt"
	"strings"
)

// NextUsername derives a username from the email local part and the number
// of existing identities, skipping values already taken
func NextUsername(ctx context.Context, users UserRepository, email string) (string, error) {
	base := strings.SplitN(email, "@", 2)[0]
	if base == "" {
		base = "user"
	}

	count, err := users.Count(ctx)
	if err != nil {
		return "", err
	}

	for n := count + 1; ; n++ {
		candidate := fmt.Sprintf("%s%d", base, n)
		exists, err := users.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}
