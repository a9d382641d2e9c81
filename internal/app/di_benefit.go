package app

import (
	"fmt"

	benefitRepository "github.com/allisson/cardpay/internal/benefit/repository"
	benefitUsecase "github.com/allisson/cardpay/internal/benefit/usecase"
)

// CardRepository returns the card repository based on database driver.
func (c *Container) CardRepository() (benefitUsecase.CardRepository, error) {
	var err error
	c.cardRepoInit.Do(func() {
		c.cardRepo, err = c.initCardRepository()
		if err != nil {
			c.initErrors["cardRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cardRepo"]; exists {
		return nil, storedErr
	}
	return c.cardRepo, nil
}

// RuleRepository returns the benefit rule repository based on database driver.
func (c *Container) RuleRepository() (benefitUsecase.RuleRepository, error) {
	var err error
	c.ruleRepoInit.Do(func() {
		c.ruleRepo, err = c.initRuleRepository()
		if err != nil {
			c.initErrors["ruleRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ruleRepo"]; exists {
		return nil, storedErr
	}
	return c.ruleRepo, nil
}

// UsageRepository returns the usage record repository based on database driver.
func (c *Container) UsageRepository() (benefitUsecase.UsageRepository, error) {
	var err error
	c.usageRepoInit.Do(func() {
		c.usageRepo, err = c.initUsageRepository()
		if err != nil {
			c.initErrors["usageRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["usageRepo"]; exists {
		return nil, storedErr
	}
	return c.usageRepo, nil
}

// Selector returns the best-benefit selector, instrumented with metrics.
func (c *Container) Selector() (benefitUsecase.Selector, error) {
	var err error
	c.selectorInit.Do(func() {
		c.selector, err = c.initSelector()
		if err != nil {
			c.initErrors["selector"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["selector"]; exists {
		return nil, storedErr
	}
	return c.selector, nil
}

// initCardRepository creates the card repository instance.
func (c *Container) initCardRepository() (benefitUsecase.CardRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for card repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return benefitRepository.NewMySQLCardRepository(db), nil
	case "postgres":
		return benefitRepository.NewPostgreSQLCardRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRuleRepository creates the benefit rule repository instance.
func (c *Container) initRuleRepository() (benefitUsecase.RuleRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for rule repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return benefitRepository.NewMySQLRuleRepository(db), nil
	case "postgres":
		return benefitRepository.NewPostgreSQLRuleRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUsageRepository creates the usage record repository instance.
func (c *Container) initUsageRepository() (benefitUsecase.UsageRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for usage repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return benefitRepository.NewMySQLUsageRepository(db), nil
	case "postgres":
		return benefitRepository.NewPostgreSQLUsageRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSelector creates the best-benefit selector with all its dependencies.
func (c *Container) initSelector() (benefitUsecase.Selector, error) {
	cardRepo, err := c.CardRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get card repository for selector: %w", err)
	}

	ruleRepo, err := c.RuleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get rule repository for selector: %w", err)
	}

	usageRepo, err := c.UsageRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage repository for selector: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for selector: %w", err)
	}

	selector := benefitUsecase.NewSelector(cardRepo, ruleRepo, usageRepo, c.Logger())

	return benefitUsecase.NewSelectorWithMetrics(selector, businessMetrics), nil
}
