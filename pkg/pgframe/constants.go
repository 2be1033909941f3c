package pgframe

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Operation completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitSchemaError     = 12 // Unmappable type, bad identifier, missing table
	ExitDataError       = 13 // Malformed dataset or rejected value
	ExitIntegrityError  = 14 // Constraint violation
	ExitPartialFailure  = 15 // Some rows written, some rejected
	ExitExecutionFailed = 16 // Other SQL execution failure
)

const (
	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of connection retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultPageSize is the number of statements sent per round trip by the
	// batched strategy when no page size is given.
	DefaultPageSize = 100

	// DefaultMaxFailures caps the row failures sampled by single-row ingestion.
	DefaultMaxFailures = 10

	// DefaultSchema is the PostgreSQL schema tables are created in and listed from.
	DefaultSchema = "public"

	// DefaultKeyColumn is the name of the synthetic auto-increment primary key.
	DefaultKeyColumn = "id"

	// CopyDelimiter separates fields in the bulk text-copy stream.
	CopyDelimiter = '|'

	// CopyNull is the text-copy encoding of a null value.
	CopyNull = `\N`

	// MaxIdentifierLength is PostgreSQL's NAMEDATALEN-1 limit.
	MaxIdentifierLength = 63

	// DefaultManagementDB is the database used when none is configured.
	DefaultManagementDB = "postgres"
)
