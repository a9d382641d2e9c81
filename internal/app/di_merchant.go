package app

import (
	"fmt"

	merchantRepository "github.com/allisson/cardpay/internal/merchant/repository"
	merchantUsecase "github.com/allisson/cardpay/internal/merchant/usecase"
)

// MerchantRepository returns the merchant repository based on database driver.
func (c *Container) MerchantRepository() (merchantUsecase.MerchantRepository, error) {
	var err error
	c.merchantRepoInit.Do(func() {
		c.merchantRepo, err = c.initMerchantRepository()
		if err != nil {
			c.initErrors["merchantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["merchantRepo"]; exists {
		return nil, storedErr
	}
	return c.merchantRepo, nil
}

// Classifier returns the merchant classifier. The caller is responsible for
// running Start on it so the snapshot refresh loop lives with the server.
func (c *Container) Classifier() (merchantUsecase.Classifier, error) {
	var err error
	c.classifierInit.Do(func() {
		c.classifier, err = c.initClassifier()
		if err != nil {
			c.initErrors["classifier"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["classifier"]; exists {
		return nil, storedErr
	}
	return c.classifier, nil
}

// initMerchantRepository creates the merchant repository instance.
func (c *Container) initMerchantRepository() (merchantUsecase.MerchantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for merchant repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return merchantRepository.NewMySQLMerchantRepository(db), nil
	case "postgres":
		return merchantRepository.NewPostgreSQLMerchantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initClassifier creates the merchant classifier.
func (c *Container) initClassifier() (merchantUsecase.Classifier, error) {
	merchantRepo, err := c.MerchantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant repository for classifier: %w", err)
	}

	return merchantUsecase.NewClassifier(
		merchantRepo,
		c.config.MerchantCacheRefreshInterval,
		c.Logger(),
	), nil
}
