package pgframe

import (
	"errors"
	"fmt"
	"time"
)

// ConnectionConfig represents parsed connection parameters.
// It is the explicit connection descriptor handed to a Connector; pgframe
// never reads connection settings from globals.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// Client certificate authentication (AuthMethodCertificate)
	SSLCert     string
	SSLKey      string
	SSLRootCert string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters.
	// If all three are provided, Service Principal authentication is used.
	// Otherwise the DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance).
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodCertificate                    // mTLS
	AuthMethodAWSIAM                         // AWS RDS IAM Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Entra ID
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodCertificate:
		return "Certificate"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// Strategy selects the write path used to load rows.
type Strategy string

const (
	StrategySingle     Strategy = "single"      // one INSERT per row, committed individually
	StrategyMany       Strategy = "many"        // every row in one pipelined batch
	StrategyBatch      Strategy = "batch"       // pages of DefaultPageSize
	StrategyPage       Strategy = "page"        // pages of IngestOptions.PageSize
	StrategyCopy       Strategy = "copy"        // COPY FROM STDIN, text format
	StrategyCopyBinary Strategy = "copy-binary" // COPY FROM STDIN, binary format
)

// Strategies lists every supported strategy in documentation order.
func Strategies() []Strategy {
	return []Strategy{StrategySingle, StrategyMany, StrategyBatch, StrategyPage, StrategyCopy, StrategyCopyBinary}
}

// ParseStrategy converts a CLI or config value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q (want one of %v): %w", s, Strategies(), ErrInvalidConfig)
}

// IngestOptions tunes an ingestion call.
type IngestOptions struct {
	// Strategy defaults to StrategyCopy.
	Strategy Strategy

	// PageSize is used by StrategyPage. Zero means DefaultPageSize.
	PageSize int

	// Schema is the target PostgreSQL schema. Empty means DefaultSchema.
	Schema string

	// MaxFailures caps the row failures kept by StrategySingle. Zero means DefaultMaxFailures.
	MaxFailures int
}

// Validate checks the options and returns a multi-error if several fields are wrong.
func (o *IngestOptions) Validate() error {
	var errs []error

	if o.Strategy != "" {
		if _, err := ParseStrategy(string(o.Strategy)); err != nil {
			errs = append(errs, err)
		}
	}
	if o.PageSize < 0 {
		errs = append(errs, fmt.Errorf("page size cannot be negative: %w", ErrInvalidConfig))
	}
	if o.MaxFailures < 0 {
		errs = append(errs, fmt.Errorf("max failures cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// WithDefaults returns a copy with every zero field replaced by its default.
func (o IngestOptions) WithDefaults() IngestOptions {
	if o.Strategy == "" {
		o.Strategy = StrategyCopy
	}
	if o.PageSize == 0 {
		o.PageSize = DefaultPageSize
	}
	if o.Schema == "" {
		o.Schema = DefaultSchema
	}
	if o.MaxFailures == 0 {
		o.MaxFailures = DefaultMaxFailures
	}
	return o
}

// TableOutcome reports what EnsureTable did.
type TableOutcome int

const (
	OutcomeExisted TableOutcome = iota // table was already present; nothing changed
	OutcomeCreated                     // table was created by this call
)

func (o TableOutcome) String() string {
	if o == OutcomeCreated {
		return "created"
	}
	return "existed"
}

// IngestResult summarizes one ingestion call.
type IngestResult struct {
	Table        string
	Strategy     Strategy
	Outcome      TableOutcome
	RowsWritten  int
	FailedRows   int
	Statements   int // round trips issued for the write path
	SerializeDur time.Duration
	Elapsed      time.Duration
	Failures     []RowFailure
}
