package app

import (
	"context"
	"fmt"

	"github.com/allisson/cardpay/internal/issuer"
	"github.com/allisson/cardpay/internal/notify"
	paymentHTTP "github.com/allisson/cardpay/internal/payment/http"
	paymentRepository "github.com/allisson/cardpay/internal/payment/repository"
	paymentUsecase "github.com/allisson/cardpay/internal/payment/usecase"
	"github.com/allisson/cardpay/internal/report"
)

// ComparisonRepository returns the comparison repository based on database driver.
func (c *Container) ComparisonRepository() (paymentUsecase.ComparisonRepository, error) {
	var err error
	c.comparisonRepoInit.Do(func() {
		c.comparisonRepo, err = c.initComparisonRepository()
		if err != nil {
			c.initErrors["comparisonRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["comparisonRepo"]; exists {
		return nil, storedErr
	}
	return c.comparisonRepo, nil
}

// IssuerClient returns the external card-issuer client.
func (c *Container) IssuerClient() (issuer.Client, error) {
	c.issuerClientInit.Do(func() {
		c.issuerClient = issuer.NewClient(c.config.IssuerBaseURL, c.config.IssuerTimeout)
	})
	return c.issuerClient, nil
}

// ReportClient returns the monthly-summary report client.
func (c *Container) ReportClient() (report.Client, error) {
	c.reportClientInit.Do(func() {
		c.reportClient = report.NewClient(c.config.ReportBaseURL, c.config.ReportTimeout, c.Logger())
	})
	return c.reportClient, nil
}

// Notifier returns the in-process payment notification registry.
func (c *Container) Notifier() (notify.Notifier, error) {
	c.notifierInit.Do(func() {
		c.notifier = notify.NewNotifier()
	})
	return c.notifier, nil
}

// Orchestrator returns the payment orchestrator, instrumented with metrics.
func (c *Container) Orchestrator(ctx context.Context) (paymentUsecase.Orchestrator, error) {
	var err error
	c.orchestratorInit.Do(func() {
		c.orchestrator, err = c.initOrchestrator(ctx)
		if err != nil {
			c.initErrors["orchestrator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orchestrator"]; exists {
		return nil, storedErr
	}
	return c.orchestrator, nil
}

// PaymentHandler returns the HTTP handler for payment operations.
func (c *Container) PaymentHandler(ctx context.Context) (*paymentHTTP.PaymentHandler, error) {
	var err error
	c.paymentHandlerInit.Do(func() {
		c.paymentHandler, err = c.initPaymentHandler(ctx)
		if err != nil {
			c.initErrors["paymentHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentHandler"]; exists {
		return nil, storedErr
	}
	return c.paymentHandler, nil
}

// initComparisonRepository creates the comparison repository instance.
func (c *Container) initComparisonRepository() (paymentUsecase.ComparisonRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for comparison repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return paymentRepository.NewMySQLComparisonRepository(db), nil
	case "postgres":
		return paymentRepository.NewPostgreSQLComparisonRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOrchestrator creates the payment orchestrator with all its dependencies.
func (c *Container) initOrchestrator(ctx context.Context) (paymentUsecase.Orchestrator, error) {
	tokenManager, err := c.TokenManager(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token manager for orchestrator: %w", err)
	}

	classifier, err := c.Classifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get classifier for orchestrator: %w", err)
	}

	selector, err := c.Selector()
	if err != nil {
		return nil, fmt.Errorf("failed to get selector for orchestrator: %w", err)
	}

	cardRepo, err := c.CardRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get card repository for orchestrator: %w", err)
	}

	usageRepo, err := c.UsageRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage repository for orchestrator: %w", err)
	}

	comparisonRepo, err := c.ComparisonRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison repository for orchestrator: %w", err)
	}

	issuerClient, err := c.IssuerClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get issuer client for orchestrator: %w", err)
	}

	reportClient, err := c.ReportClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get report client for orchestrator: %w", err)
	}

	notifier, err := c.Notifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get notifier for orchestrator: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for orchestrator: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for orchestrator: %w", err)
	}

	orchestrator := paymentUsecase.NewOrchestrator(
		tokenManager,
		classifier,
		selector,
		cardRepo,
		usageRepo,
		comparisonRepo,
		issuerClient,
		reportClient,
		notifier,
		txManager,
		c.Logger(),
	)

	return paymentUsecase.NewOrchestratorWithMetrics(orchestrator, businessMetrics), nil
}

// initPaymentHandler creates the payment handler.
func (c *Container) initPaymentHandler(ctx context.Context) (*paymentHTTP.PaymentHandler, error) {
	orchestrator, err := c.Orchestrator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get orchestrator for payment handler: %w", err)
	}

	notifier, err := c.Notifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get notifier for payment handler: %w", err)
	}

	return paymentHTTP.NewPaymentHandler(
		orchestrator,
		notifier,
		c.config.NotifyWaitTimeout,
		c.Logger(),
	), nil
}
