package app

import (
	"context"
	"fmt"

	"github.com/allisson/cardpay/internal/cache"
	tokenHTTP "github.com/allisson/cardpay/internal/token/http"
	tokenService "github.com/allisson/cardpay/internal/token/service"
)

// AliasCache returns the in-memory TTL cache used for short-token aliases.
func (c *Container) AliasCache(ctx context.Context) (cache.Cache, error) {
	c.aliasCacheInit.Do(func() {
		c.aliasCache = cache.NewMemoryCache(ctx, c.config.TokenExpiration)
	})
	return c.aliasCache, nil
}

// TokenManager returns the payment token manager.
func (c *Container) TokenManager(ctx context.Context) (tokenService.Manager, error) {
	var err error
	c.tokenManagerInit.Do(func() {
		c.tokenManager, err = c.initTokenManager(ctx)
		if err != nil {
			c.initErrors["tokenManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenManager"]; exists {
		return nil, storedErr
	}
	return c.tokenManager, nil
}

// TokenHandler returns the HTTP handler for token issuance.
func (c *Container) TokenHandler(ctx context.Context) (*tokenHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler(ctx)
		if err != nil {
			c.initErrors["tokenHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// initTokenManager loads the payment keys, builds the codec and assembles the
// token manager. Bad key material fails here, at startup, not per request.
func (c *Container) initTokenManager(ctx context.Context) (tokenService.Manager, error) {
	key, signingSecret, err := tokenService.LoadPaymentKeys(ctx, c.config)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment keys: %w", err)
	}

	codec, err := tokenService.NewCodec(key, signingSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}

	aliasCache, err := c.AliasCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get alias cache for token manager: %w", err)
	}

	return tokenService.NewManager(
		codec,
		aliasCache,
		c.config.TokenExpiration,
		c.config.TokenAliasLength,
	), nil
}

// initTokenHandler creates the token issuance handler.
func (c *Container) initTokenHandler(ctx context.Context) (*tokenHTTP.TokenHandler, error) {
	manager, err := c.TokenManager(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token manager for token handler: %w", err)
	}

	cardRepo, err := c.CardRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get card repository for token handler: %w", err)
	}

	return tokenHTTP.NewTokenHandler(
		manager,
		cardRepo,
		c.config.TokenExpiration,
		c.Logger(),
	), nil
}
