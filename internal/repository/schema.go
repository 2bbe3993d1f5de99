package repository

// Schema is the ledger DDL. Applied by migrations in deployment and by the
// test harness; kept here so the constraints the code relies on (balance
// floor, positive amounts, reference uniqueness) live next to the queries.
const Schema = `
CREATE TABLE IF NOT EXISTS wallets (
	id UUID PRIMARY KEY,
	owner_id UUID NOT NULL UNIQUE,
	balance DECIMAL(18, 2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
	currency VARCHAR(3) NOT NULL DEFAULT 'NGN',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
	id UUID PRIMARY KEY,
	sender TEXT NOT NULL DEFAULT '',
	recipient TEXT NOT NULL DEFAULT '',
	sender_wallet_id UUID REFERENCES wallets(id),
	recipient_wallet_id UUID REFERENCES wallets(id),
	amount DECIMAL(18, 2) NOT NULL CHECK (amount > 0),
	type VARCHAR(16) NOT NULL CHECK (type IN ('deposit', 'withdraw', 'transfer_in', 'transfer_out', 'charge', 'payment')),
	source VARCHAR(8) NOT NULL CHECK (source IN ('wallet', 'bank')),
	status VARCHAR(12) NOT NULL CHECK (status IN ('pending', 'locked', 'completed', 'failed', 'reversed')),
	tx_ref TEXT NOT NULL DEFAULT '',
	correlation_id UUID,
	narration TEXT NOT NULL DEFAULT '',
	order_id UUID,
	booking_id UUID,
	inspection_id UUID,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_transactions_type_ref ON transactions (type, tx_ref) WHERE tx_ref <> '';
CREATE INDEX IF NOT EXISTS idx_transactions_sender_status ON transactions (sender_wallet_id, status);
CREATE INDEX IF NOT EXISTS idx_transactions_recipient_status ON transactions (recipient_wallet_id, status);
CREATE INDEX IF NOT EXISTS idx_transactions_ref ON transactions (tx_ref);
CREATE INDEX IF NOT EXISTS idx_transactions_created ON transactions (created_at);

CREATE TABLE IF NOT EXISTS revenue_settings (
	id UUID PRIMARY KEY,
	dealer_pct DECIMAL(5, 2) NOT NULL CHECK (dealer_pct >= 0 AND dealer_pct <= 100),
	platform_pct DECIMAL(5, 2) NOT NULL CHECK (platform_pct >= 0 AND platform_pct <= 100),
	active BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK (dealer_pct + platform_pct = 100)
);

CREATE TABLE IF NOT EXISTS revenue_splits (
	id UUID PRIMARY KEY,
	inspection_id UUID NOT NULL UNIQUE,
	transaction_id UUID NOT NULL REFERENCES transactions(id),
	total DECIMAL(18, 2) NOT NULL CHECK (total > 0),
	dealer_amount DECIMAL(18, 2) NOT NULL,
	dealer_pct DECIMAL(5, 2) NOT NULL,
	platform_amount DECIMAL(18, 2) NOT NULL,
	platform_pct DECIMAL(5, 2) NOT NULL,
	settings_id UUID NOT NULL REFERENCES revenue_settings(id),
	dealer_credited BOOLEAN NOT NULL DEFAULT FALSE,
	dealer_credited_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK (dealer_amount + platform_amount = total)
);
`
