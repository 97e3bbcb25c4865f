package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS debts (
    user_id              TEXT NOT NULL,
    id                   TEXT NOT NULL,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    last4                TEXT NOT NULL DEFAULT '',
    balance              TEXT NOT NULL,
    apr                  TEXT NOT NULL,
    min_payment          TEXT NOT NULL,
    due_day              INTEGER NOT NULL DEFAULT 0,
    updated_at           TEXT NOT NULL,
    PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS settings (
    user_id              TEXT PRIMARY KEY,
    strategy             TEXT NOT NULL,
    extra_monthly        TEXT NOT NULL,
    one_time_extra       TEXT NOT NULL,
    target_date          TEXT NOT NULL DEFAULT '',
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plans (
    cache_key            TEXT PRIMARY KEY,
    plan_json            TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_debts_user ON debts(user_id, position);
CREATE INDEX IF NOT EXISTS idx_plans_created ON plans(created_at);
`
