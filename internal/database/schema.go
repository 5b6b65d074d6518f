package database

// schema is the full DDL for the back-office database. All statements use
// IF NOT EXISTS / ON CONFLICT so the migration can run on every boot.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name           TEXT NOT NULL,
	role           TEXT NOT NULL CHECK (role IN ('admin', 'sales')),
	api_key_prefix TEXT NOT NULL,
	api_key_hash   TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	revoked_at     TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_users_api_key_prefix ON users (api_key_prefix);

CREATE TABLE IF NOT EXISTS leads (
	id            UUID PRIMARY KEY,
	business_name TEXT NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL DEFAULT '',
	government    TEXT NOT NULL DEFAULT '',
	budget        NUMERIC(12,2) NOT NULL DEFAULT 0,
	has_website   BOOLEAN NOT NULL DEFAULT FALSE,
	message       TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'Not Contacted',
	assigned_to   UUID NOT NULL REFERENCES users (id),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_leads_assigned_to ON leads (assigned_to);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at DESC);

CREATE TABLE IF NOT EXISTS lead_rotation (
	id            SMALLINT PRIMARY KEY CHECK (id = 1),
	last_agent_id UUID REFERENCES users (id) ON DELETE SET NULL
);

INSERT INTO lead_rotation (id, last_agent_id) VALUES (1, NULL)
ON CONFLICT (id) DO NOTHING;

CREATE TABLE IF NOT EXISTS lead_notes (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	lead_id    UUID NOT NULL REFERENCES leads (id) ON DELETE CASCADE,
	author_id  UUID NOT NULL REFERENCES users (id),
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_lead_notes_lead_id ON lead_notes (lead_id, created_at);

CREATE TABLE IF NOT EXISTS clients (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	business_name TEXT NOT NULL UNIQUE,
	contact_name  TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL DEFAULT '',
	industry      TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'active',
	monthly_fee   NUMERIC(12,2) NOT NULL DEFAULT 0,
	started_at    DATE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS client_team (
	client_id   UUID NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
	user_id     UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	assigned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (client_id, user_id)
);

CREATE TABLE IF NOT EXISTS scripts (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	client_id  UUID NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'draft',
	due_date   DATE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_scripts_client_id ON scripts (client_id);

CREATE TABLE IF NOT EXISTS shoots (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	client_id    UUID NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
	script_id    UUID REFERENCES scripts (id) ON DELETE SET NULL,
	location     TEXT NOT NULL DEFAULT '',
	scheduled_at TIMESTAMPTZ,
	status       TEXT NOT NULL DEFAULT 'scheduled',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_shoots_client_id ON shoots (client_id);

CREATE TABLE IF NOT EXISTS edits (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	client_id    UUID NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
	shoot_id     UUID REFERENCES shoots (id) ON DELETE SET NULL,
	editor_id    UUID REFERENCES users (id) ON DELETE SET NULL,
	status       TEXT NOT NULL DEFAULT 'in_progress',
	due_date     DATE,
	delivered_at TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_edits_client_id ON edits (client_id);

CREATE TABLE IF NOT EXISTS publishes (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	client_id    UUID NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
	edit_id      UUID REFERENCES edits (id) ON DELETE SET NULL,
	platform     TEXT NOT NULL,
	url          TEXT NOT NULL DEFAULT '',
	published_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_publishes_client_id ON publishes (client_id);

CREATE TABLE IF NOT EXISTS payments (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	client_id  UUID NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
	amount     NUMERIC(12,2) NOT NULL,
	method     TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'pending',
	paid_at    TIMESTAMPTZ,
	notes      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_payments_client_id ON payments (client_id);

CREATE TABLE IF NOT EXISTS daily_analytics (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	client_id  UUID NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
	day        DATE NOT NULL,
	platform   TEXT NOT NULL,
	views      BIGINT NOT NULL DEFAULT 0,
	likes      BIGINT NOT NULL DEFAULT 0,
	comments   BIGINT NOT NULL DEFAULT 0,
	shares     BIGINT NOT NULL DEFAULT 0,
	followers  BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (client_id, day, platform)
);
`
