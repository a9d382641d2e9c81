package service

import (
	"context"
	"encoding/base64"

	"gocloud.dev/secrets"

	"github.com/allisson/cardpay/internal/config"
	apperrors "github.com/allisson/cardpay/internal/errors"

	// Register KMS provider drivers for wrapped-key deployments.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// LoadPaymentKeys resolves the payment encryption key and signing secret from
// configuration. When PAYMENT_KEY_ENCRYPTED and KMS_KEY_URI are both set the
// encrypted key is unwrapped through the configured KMS provider
// (gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://);
// otherwise PAYMENT_KEY is decoded directly.
//
// Key material problems are startup-time configuration faults: callers treat a
// returned error as fatal.
func LoadPaymentKeys(ctx context.Context, cfg *config.Config) (key, signingSecret []byte, err error) {
	signingSecret, err = base64.StdEncoding.DecodeString(cfg.PaymentSigningSecret)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "PAYMENT_SIGNING_SECRET is not valid base64")
	}
	if len(signingSecret) == 0 {
		return nil, nil, apperrors.Wrap(apperrors.ErrInvalidInput, "PAYMENT_SIGNING_SECRET is not set")
	}

	if cfg.PaymentKeyEncrypted != "" && cfg.KMSKeyURI != "" {
		key, err = unwrapKey(ctx, cfg.KMSKeyURI, cfg.PaymentKeyEncrypted)
		if err != nil {
			return nil, nil, err
		}
		return key, signingSecret, nil
	}

	key, err = base64.StdEncoding.DecodeString(cfg.PaymentKey)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "PAYMENT_KEY is not valid base64")
	}
	if len(key) == 0 {
		return nil, nil, apperrors.Wrap(apperrors.ErrInvalidInput, "PAYMENT_KEY is not set")
	}

	return key, signingSecret, nil
}

// unwrapKey opens a secrets.Keeper for keyURI and decrypts the wrapped key.
func unwrapKey(ctx context.Context, keyURI, wrapped string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(wrapped)
	if err != nil {
		return nil, apperrors.Wrap(err, "PAYMENT_KEY_ENCRYPTED is not valid base64")
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open KMS keeper")
	}
	defer keeper.Close()

	key, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unwrap payment key")
	}

	return key, nil
}
