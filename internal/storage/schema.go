package storage

const schemaSQL = `
CREATE TABLE IF NOT EXISTS financial_records (
    id                   TEXT PRIMARY KEY,
    year                 INTEGER NOT NULL,
    age                  INTEGER NOT NULL,
    net_worth            REAL NOT NULL,
    growth_percentage    REAL,
    growth_amount        REAL,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_financial_records_year ON financial_records(year);

CREATE TABLE IF NOT EXISTS user_settings (
    id                        INTEGER PRIMARY KEY CHECK (id = 1),
    projection_years          INTEGER NOT NULL,
    custom_growth_percentage  REAL,
    annual_contribution       REAL,
    updated_at                TEXT NOT NULL
);
`
