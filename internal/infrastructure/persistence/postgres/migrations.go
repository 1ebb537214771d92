package postgres

// Constraint names the repositories translate into domain errors.
const (
	constraintOneActiveLease = "leases_one_active_per_housing"
	constraintContractCode   = "contracts_code_lower_key"
	constraintContractLease  = "contracts_lease_id_key"
)

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_housings_and_students",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_leases",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_contracts",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
		{
			Version: 4,
			Name:    "create_reviews",
			UpSQL:   migration004Up,
			DownSQL: migration004Down,
		},
		{
			Version: 5,
			Name:    "contracts_finite_amount",
			UpSQL:   migration005Up,
			DownSQL: migration005Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: HOUSINGS AND STUDENTS
// Both tables are owned by other modules; the tenancy engine reads identity
// and writes housings.available only.
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS housings (
    id TEXT PRIMARY KEY,
    name VARCHAR(200) NOT NULL DEFAULT '',
    available BOOLEAN NOT NULL DEFAULT TRUE,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS students (
    id TEXT PRIMARY KEY,
    display_name VARCHAR(100) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const migration001Down = `
DROP TABLE IF EXISTS students;
DROP TABLE IF EXISTS housings;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: LEASES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS leases (
    id TEXT PRIMARY KEY,
    student_id TEXT NOT NULL REFERENCES students(id) ON DELETE RESTRICT,
    housing_id TEXT NOT NULL REFERENCES housings(id) ON DELETE RESTRICT,
    state VARCHAR(20) NOT NULL,
    duration_months INTEGER NOT NULL,
    started_at TIMESTAMP WITH TIME ZONE NOT NULL,
    ended_at TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_state CHECK (state IN ('PENDING', 'ACTIVE', 'COMPLETED', 'CANCELLED')),
    CONSTRAINT valid_duration CHECK (duration_months BETWEEN 1 AND 36)
);

-- At most one ACTIVE lease per housing unit.
CREATE UNIQUE INDEX IF NOT EXISTS leases_one_active_per_housing
    ON leases(housing_id) WHERE state = 'ACTIVE';

CREATE INDEX IF NOT EXISTS idx_leases_student ON leases(student_id, started_at DESC);
CREATE INDEX IF NOT EXISTS idx_leases_housing ON leases(housing_id, started_at DESC);
CREATE INDEX IF NOT EXISTS idx_leases_completed ON leases(student_id, housing_id) WHERE state = 'COMPLETED';
`

const migration002Down = `
DROP TABLE IF EXISTS leases;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CONTRACTS
// The contract holds the only reference between lease and contract.
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
CREATE TABLE IF NOT EXISTS contracts (
    id TEXT PRIMARY KEY,
    code VARCHAR(50) NOT NULL,
    start_date TIMESTAMP WITH TIME ZONE NOT NULL,
    end_date TIMESTAMP WITH TIME ZONE NOT NULL,
    total_amount DOUBLE PRECISION NOT NULL,
    lease_id TEXT NOT NULL REFERENCES leases(id) ON DELETE RESTRICT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT contracts_lease_id_key UNIQUE (lease_id),
    CONSTRAINT valid_code CHECK (length(btrim(code)) > 0),
    CONSTRAINT valid_period CHECK (end_date > start_date),
    CONSTRAINT valid_amount CHECK (total_amount >= 0)
);

CREATE UNIQUE INDEX IF NOT EXISTS contracts_code_lower_key ON contracts(lower(code));
`

const migration003Down = `
DROP TABLE IF EXISTS contracts;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: REVIEWS
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
CREATE TABLE IF NOT EXISTS reviews (
    id TEXT PRIMARY KEY,
    content VARCHAR(2000) NOT NULL,
    rating SMALLINT NOT NULL,
    housing_id TEXT NOT NULL REFERENCES housings(id) ON DELETE CASCADE,
    author_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    modified_at TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_rating CHECK (rating BETWEEN 1 AND 5)
);

CREATE INDEX IF NOT EXISTS idx_reviews_housing ON reviews(housing_id, created_at DESC);
`

const migration004Down = `
DROP TABLE IF EXISTS reviews;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 005: FINITE CONTRACT AMOUNTS
// NaN sorts above every number in PostgreSQL, so ">= 0" alone admits it.
// ══════════════════════════════════════════════════════════════════════════════

const migration005Up = `
ALTER TABLE contracts DROP CONSTRAINT IF EXISTS valid_amount;
ALTER TABLE contracts ADD CONSTRAINT valid_amount
    CHECK (total_amount >= 0 AND total_amount < 'Infinity'::double precision);
`

const migration005Down = `
ALTER TABLE contracts DROP CONSTRAINT IF EXISTS valid_amount;
ALTER TABLE contracts ADD CONSTRAINT valid_amount CHECK (total_amount >= 0);
`
