package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"gocloud.dev/secrets"

	// Register KMS provider drivers for wrapped-key output.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// RunGeneratePaymentKeys generates the symmetric key material the token codec
// needs: a 32-byte encryption key and a 32-byte signing secret. Key material is
// zeroed from memory after encoding.
//
// When kmsKeyURI is set the encryption key is wrapped with the KMS provider
// before output and the plaintext key is never printed. For local development,
// use kmsKeyURI="base64key://<32-byte-base64-key>".
//
// Output format without KMS:
//   - PAYMENT_KEY="<base64-encoded-key>"
//   - PAYMENT_SIGNING_SECRET="<base64-encoded-secret>"
//
// Output format with KMS:
//   - PAYMENT_KEY_ENCRYPTED="<base64-encoded-kms-ciphertext>"
//   - KMS_KEY_URI="<uri>"
//   - PAYMENT_SIGNING_SECRET="<base64-encoded-secret>"
//
// Security: never use the base64key provider in production. Use cloud KMS
// providers (gcpkms, awskms, azurekeyvault, hashivault).
func RunGeneratePaymentKeys(ctx context.Context, logger *slog.Logger, w io.Writer, kmsKeyURI string) error {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate payment key: %w", err)
	}
	defer zeroBytes(key)

	signingSecret := make([]byte, 32)
	if _, err := rand.Read(signingSecret); err != nil {
		return fmt.Errorf("failed to generate signing secret: %w", err)
	}
	defer zeroBytes(signingSecret)

	if kmsKeyURI == "" {
		fmt.Fprintln(w, "# Add to your environment:")
		fmt.Fprintf(w, "PAYMENT_KEY=%q\n", base64.StdEncoding.EncodeToString(key))
		fmt.Fprintf(w, "PAYMENT_SIGNING_SECRET=%q\n", base64.StdEncoding.EncodeToString(signingSecret))
		logger.Info("payment keys generated")
		return nil
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt payment key with KMS: %w", err)
	}

	fmt.Fprintln(w, "# Add to your environment:")
	fmt.Fprintf(w, "PAYMENT_KEY_ENCRYPTED=%q\n", base64.StdEncoding.EncodeToString(ciphertext))
	fmt.Fprintf(w, "KMS_KEY_URI=%q\n", kmsKeyURI)
	fmt.Fprintf(w, "PAYMENT_SIGNING_SECRET=%q\n", base64.StdEncoding.EncodeToString(signingSecret))
	logger.Info("payment keys generated with KMS-wrapped encryption key")
	return nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
