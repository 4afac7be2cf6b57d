package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- SCHEMA ENTITY (one table definition, with its scores)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS schema_entity SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON schema_entity TYPE string;
    DEFINE FIELD IF NOT EXISTS description ON schema_entity TYPE string DEFAULT "";
    DEFINE FIELD IF NOT EXISTS columns ON schema_entity TYPE array<string> DEFAULT [];
    -- columns is always an array; has_columns keeps absent apart from empty
    DEFINE FIELD IF NOT EXISTS has_columns ON schema_entity TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS importance ON schema_entity TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS second_importance ON schema_entity TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS run ON schema_entity TYPE record<score_run>;
    DEFINE FIELD IF NOT EXISTS updated ON schema_entity TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS schema_entity_rank ON schema_entity FIELDS second_importance;
    DEFINE INDEX IF NOT EXISTS schema_entity_name ON schema_entity FIELDS name;

    -- ==========================================================================
    -- LINKS (entity matched from other entity during scoring)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS links_to TYPE RELATION IN schema_entity OUT schema_entity SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS position ON links_to TYPE int;
    DEFINE FIELD IF NOT EXISTS run ON links_to TYPE record<score_run>;
    DEFINE FIELD IF NOT EXISTS unique_key ON links_to VALUE string::concat(<string>in, "->", <string>out);
    DEFINE INDEX IF NOT EXISTS unique_link ON links_to FIELDS unique_key UNIQUE;

    -- ==========================================================================
    -- SCORE RUN
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS score_run SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS entities ON score_run TYPE int;
    DEFINE FIELD IF NOT EXISTS links ON score_run TYPE int;
    DEFINE FIELD IF NOT EXISTS created ON score_run TYPE datetime DEFAULT time::now();
`
