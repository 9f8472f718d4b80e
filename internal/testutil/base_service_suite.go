package testutil

import (
	"context"
	"time"

	"github.com/flexprice/salestax/internal/cache"
	"github.com/flexprice/salestax/internal/config"
	"github.com/flexprice/salestax/internal/domain/preference"
	"github.com/flexprice/salestax/internal/integration/avatax"
	"github.com/flexprice/salestax/internal/logger"
	"github.com/flexprice/salestax/internal/sentry"
	"github.com/flexprice/salestax/internal/types"
	"github.com/flexprice/salestax/internal/validator"
	"github.com/stretchr/testify/suite"
)

// TestEndpoint is the tax service endpoint used by the default settings
const TestEndpoint = "https://avatax.test"

// Stores holds all the repository interfaces for testing
type Stores struct {
	TaxTransactionRepo *InMemoryTaxTransactionStore
	PreferenceRepo     *InMemoryPreferenceStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	stores     Stores
	httpClient *MockHTTPClient
	avatax     avatax.Client
	cache      cache.Cache
	sentry     *sentry.Service
	logger     *logger.Logger
	config     *config.Configuration
	now        time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Avatax.Endpoint = TestEndpoint
	s.config.Avatax.Account = "1100000000"
	s.config.Avatax.LicenseKey = "TESTLICENSEKEY"
	s.config.Avatax.CompanyCode = "TESTCO"
	s.config.Cache = config.CacheConfig{Enabled: true, PreferenceTTL: time.Minute}

	s.logger = logger.NewNoopLogger()
	s.sentry = sentry.NewSentryService(s.config, s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.stores = Stores{
		TaxTransactionRepo: NewInMemoryTaxTransactionStore(),
		PreferenceRepo:     NewInMemoryPreferenceStore(),
	}
	s.httpClient = NewMockHTTPClient()
	s.avatax = avatax.NewClient(s.httpClient, s.config, s.logger)
	s.cache = cache.NewInMemoryCache(s.config)
	s.now = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.TaxTransactionRepo.Clear()
	s.stores.PreferenceRepo.Clear()
	s.httpClient.Clear()
	s.cache.Flush(s.ctx)
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetHTTPClient returns the mock transport behind the tax client
func (s *BaseServiceTestSuite) GetHTTPClient() *MockHTTPClient {
	return s.httpClient
}

// GetAvataxClient returns a tax client using the mock transport
func (s *BaseServiceTestSuite) GetAvataxClient() avatax.Client {
	return s.avatax
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetSentry returns a disabled sentry service
func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the fixed test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}

// DefaultSettings returns a settings snapshot with calculation and
// committing enabled.
func (s *BaseServiceTestSuite) DefaultSettings() *preference.Settings {
	return &preference.Settings{
		CompanyCode:    s.config.Avatax.CompanyCode,
		TaxCalculation: true,
		DocumentCommit: true,
		Endpoint:       s.config.Avatax.Endpoint,
		Account:        s.config.Avatax.Account,
		LicenseKey:     s.config.Avatax.LicenseKey,
		ClientVersion:  s.config.Avatax.ClientVersion,
	}
}
