package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/pgframe/internal/config"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// GranularConnFlags holds connection parameters from CLI flags.
// They follow the psql conventions (-h, -p, -U, -d).
//
// There is no password flag. Use $PGPASSWORD, a .env file or a
// connection string with an embedded password.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty reports whether no host, port, user or sslmode flag was given.
// Database is excluded because -d may override the database of a
// connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AzureFlags override AZURE_TENANT_ID and AZURE_CLIENT_ID.
// The client secret is only read from AZURE_CLIENT_SECRET.
type AzureFlags struct {
	Enabled  bool
	TenantID string
	ClientID string
}

// AWSFlags select RDS IAM authentication.
type AWSFlags struct {
	Enabled bool
	Region  string // overrides AWS_REGION
}

// GoogleFlags select Cloud SQL IAM authentication.
type GoogleFlags struct {
	Enabled  bool
	Instance string // project:region:instance
}

// CloudFlags groups the cloud authentication flags. At most one provider may be enabled.
type CloudFlags struct {
	Azure  AzureFlags
	AWS    AWSFlags
	Google GoogleFlags
}

// EnvVars holds the libpq and cloud SDK environment variables pgframe honours.
// See https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string // Heroku/Rails convention

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string

	AWS_REGION string
}

func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
	}
}

// ResolveConnectionParams builds the connection descriptor with this precedence:
//
//  1. --connection (parsed as-is; PGSSLMODE fills a missing sslmode, -d overrides the database)
//  2. DATABASE_URL, when no granular flag is set
//  3. per field: granular flag > PG* variable > pgframe.yaml > default
//
// Cloud flags then select the authentication method. Giving both
// --connection and granular flags is an error, as is enabling more than
// one cloud provider.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*pgframe.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U, --sslmode)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/postgres\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d mydb\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser: %w",
			pgframe.ErrInvalidConfig,
		)
	}

	var (
		cfg *pgframe.ConnectionConfig
		err error
	)
	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}
	if err != nil {
		return nil, err
	}

	if granularFlags.Database != "" {
		cfg.Database = granularFlags.Database
	}

	if err := applyCloudAuth(cfg, cloudFlags, envVars, projectConfig); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyCloudAuth(cfg *pgframe.ConnectionConfig, flags *CloudFlags, env *EnvVars, projectConfig *config.ProjectConfig) error {
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	tenantID := firstNonEmpty(flags.Azure.TenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
	clientID := firstNonEmpty(flags.Azure.ClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
	useAzure := flags.Azure.Enabled || flags.Azure.TenantID != "" || flags.Azure.ClientID != ""

	enabled := 0
	for _, on := range []bool{useAzure, flags.AWS.Enabled, flags.Google.Enabled} {
		if on {
			enabled++
		}
	}
	if enabled > 1 {
		return fmt.Errorf("--azure, --aws and --google are mutually exclusive: %w", pgframe.ErrInvalidConfig)
	}

	switch {
	case useAzure:
		cfg.AuthMethod = pgframe.AuthMethodAzureEntraID
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case flags.AWS.Enabled:
		cfg.AuthMethod = pgframe.AuthMethodAWSIAM
		cfg.AWSRegion = firstNonEmpty(flags.AWS.Region, env.AWS_REGION, pc.AWSRegion)
		if cfg.AWSRegion == "" {
			return fmt.Errorf("--aws requires a region (use --aws-region or $AWS_REGION): %w", pgframe.ErrInvalidConfig)
		}
	case flags.Google.Enabled:
		cfg.AuthMethod = pgframe.AuthMethodGoogleIAM
		cfg.GoogleInstance = firstNonEmpty(flags.Google.Instance, pc.GoogleInstance)
		if cfg.GoogleInstance == "" {
			return fmt.Errorf("--google requires --google-instance (project:region:instance): %w", pgframe.ErrInvalidConfig)
		}
	case tenantID != "" && clientID != "" && env.AZURE_CLIENT_SECRET != "":
		// A complete service principal in the environment selects Azure without a flag.
		cfg.AuthMethod = pgframe.AuthMethodAzureEntraID
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}
	return nil
}

func resolveFromConnectionString(connStr string, envVars *EnvVars) (*pgframe.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	if cfg.SSLMode == "" {
		cfg.SSLMode = firstNonEmpty(envVars.PGSSLMODE, "prefer")
	}
	if cfg.Password == "" {
		cfg.Password = envVars.PGPASSWORD
	}
	return cfg, nil
}

func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*pgframe.ConnectionConfig, error) {
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	cfg := &pgframe.ConnectionConfig{
		Host:             firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost"),
		Username:         firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME")),
		Password:         envVars.PGPASSWORD,
		Database:         firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database, pgframe.DefaultManagementDB),
		SSLMode:          firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer"),
		SSLCert:          pc.SSLCert,
		SSLKey:           pc.SSLKey,
		SSLRootCert:      pc.SSLRootCert,
		AuthMethod:       pgframe.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}
	if cfg.SSLCert != "" {
		cfg.AuthMethod = pgframe.AuthMethodCertificate
	}

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, pgframe.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
