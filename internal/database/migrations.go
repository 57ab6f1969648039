package database

import (
	"fmt"
	"log/slog"
)

// RunMigrations applies the schema in order. The CHECK constraints on status
// columns and on the payment/contract target pairs are a backstop; the same
// invariants are enforced in the application layer inside each transaction.
func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createPrivilegeOverridesTable,
		createEventsTable,
		createTeamsTable,
		createTeamMembersTable,
		createRegistrationsTable,
		createContractsTable,
		createPaymentsTable,
		createAccommodationsTable,
		createAccommodationRequestsTable,
		createAccommodationRequestIndex,
		createReminderIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    full_name VARCHAR(200) NOT NULL,
    role VARCHAR(50) NOT NULL DEFAULT 'participant',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createPrivilegeOverridesTable = `
CREATE TABLE IF NOT EXISTS privilege_overrides (
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    resource VARCHAR(50) NOT NULL,
    action VARCHAR(50) NOT NULL,
    allowed BOOLEAN NOT NULL,

    PRIMARY KEY (user_id, resource, action)
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id SERIAL PRIMARY KEY,
    title VARCHAR(500) NOT NULL,
    type VARCHAR(20) NOT NULL DEFAULT 'Individual',
    fee BIGINT NOT NULL DEFAULT 0,
    max_participants INTEGER NOT NULL DEFAULT 0,
    registration_deadline TIMESTAMP NOT NULL,
    starts_at TIMESTAMP NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'published',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (type IN ('Individual', 'Team', 'Both')),
    CHECK (fee >= 0)
);`

const createTeamsTable = `
CREATE TABLE IF NOT EXISTS teams (
    id SERIAL PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    leader_id INTEGER NOT NULL REFERENCES users(id),
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(event_id, name),
    CHECK (status IN ('active', 'inactive', 'disqualified'))
);`

const createTeamMembersTable = `
CREATE TABLE IF NOT EXISTS team_members (
    team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id),
    role VARCHAR(20) NOT NULL DEFAULT 'Member',
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    joined_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    PRIMARY KEY (team_id, user_id),
    CHECK (status IN ('active', 'inactive', 'pending_invite'))
);`

const createRegistrationsTable = `
CREATE TABLE IF NOT EXISTS registrations (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    team_id INTEGER REFERENCES teams(id),
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    special_requirements TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(user_id, event_id),
    CHECK (status IN ('pending', 'confirmed', 'cancelled', 'waitlisted', 'checked_in')),
    CHECK (payment_status IN ('pending', 'paid', 'failed', 'refunded', 'not_required'))
);`

const createContractsTable = `
CREATE TABLE IF NOT EXISTS sponsorship_contracts (
    id SERIAL PRIMARY KEY,
    sponsor_id INTEGER NOT NULL REFERENCES users(id),
    package_id INTEGER,
    custom_level_id INTEGER,
    amount BIGINT NOT NULL,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'negotiation',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (amount > 0),
    CHECK (end_date >= start_date),
    CHECK (package_id IS NOT NULL OR custom_level_id IS NOT NULL),
    CHECK (status IN ('negotiation', 'active', 'completed', 'cancelled'))
);`

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payments (
    id SERIAL PRIMARY KEY,
    amount BIGINT NOT NULL,
    method VARCHAR(50) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    related_registration_id INTEGER REFERENCES registrations(id),
    related_contract_id INTEGER REFERENCES sponsorship_contracts(id),
    order_ref VARCHAR(64) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (amount > 0),
    CHECK ((related_registration_id IS NULL) <> (related_contract_id IS NULL)),
    CHECK (status IN ('pending', 'completed', 'failed', 'refunded'))
);`

const createAccommodationsTable = `
CREATE TABLE IF NOT EXISTS accommodations (
    id SERIAL PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    capacity INTEGER NOT NULL,
    availability VARCHAR(20) NOT NULL DEFAULT 'Available',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (capacity > 0),
    CHECK (availability IN ('Available', 'Unavailable', 'Maintenance'))
);`

const createAccommodationRequestsTable = `
CREATE TABLE IF NOT EXISTS accommodation_requests (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    check_in TIMESTAMP NOT NULL,
    check_out TIMESTAMP NOT NULL,
    number_of_people INTEGER NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'Pending',
    assigned_accommodation_id INTEGER REFERENCES accommodations(id),
    note TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (check_out > check_in),
    CHECK (number_of_people > 0),
    CHECK (status IN ('Pending', 'Approved', 'Rejected', 'Cancelled', 'Waitlisted'))
);`

const createAccommodationRequestIndex = `
CREATE INDEX IF NOT EXISTS accommodation_requests_assignment_idx
ON accommodation_requests (assigned_accommodation_id)
WHERE status = 'Approved';`

const createReminderIndex = `
CREATE INDEX IF NOT EXISTS registrations_confirmed_event_idx
ON registrations (event_id)
WHERE status = 'confirmed';`
