package db

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT DEFAULT 'owner' CHECK(role IN ('owner','operator')),
    created_at    DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS businesses (
    id                  TEXT PRIMARY KEY,
    owner_id            TEXT NOT NULL REFERENCES users(id),
    name                TEXT NOT NULL,
    industry            TEXT,
    objective           TEXT,
    brand_tone          TEXT,
    resources_status    TEXT,
    product_description TEXT,
    created_at          DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_businesses_owner ON businesses(owner_id);

CREATE TABLE IF NOT EXISTS strategies (
    id                TEXT PRIMARY KEY,
    business_id       TEXT NOT NULL REFERENCES businesses(id),
    content_plan      TEXT NOT NULL DEFAULT '{}',
    platforms         TEXT NOT NULL DEFAULT '{}',
    posting_frequency TEXT NOT NULL,
    budget            INTEGER NOT NULL,
    created_at        DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_strategies_business ON strategies(business_id);

CREATE TABLE IF NOT EXISTS content_posts (
    id                TEXT PRIMARY KEY,
    business_id       TEXT NOT NULL REFERENCES businesses(id),
    platform          TEXT NOT NULL,
    body              TEXT NOT NULL,
    media_prompt      TEXT,
    status            TEXT DEFAULT 'draft' CHECK(status IN ('draft','approved','rejected','scheduled','posted')),
    scheduled_at      DATETIME,
    persona           TEXT,
    pillar            TEXT,
    funnel_stage      TEXT,
    feedback_reason   TEXT,
    feedback_notes    TEXT,
    performance_score INTEGER DEFAULT 0,
    created_at        DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_posts_business ON content_posts(business_id);
CREATE INDEX IF NOT EXISTS idx_posts_status ON content_posts(status);
CREATE INDEX IF NOT EXISTS idx_posts_scheduled ON content_posts(scheduled_at) WHERE scheduled_at IS NOT NULL;

CREATE TABLE IF NOT EXISTS leads (
    id                   TEXT PRIMARY KEY,
    business_id          TEXT NOT NULL REFERENCES businesses(id),
    name                 TEXT NOT NULL,
    source               TEXT NOT NULL,
    pipeline_stage       TEXT DEFAULT 'new' CHECK(pipeline_stage IN ('new','cold','warm','hot','booked','no_show','sale','lost')),
    lead_score           INTEGER DEFAULT 10,
    conversation_history TEXT DEFAULT '[]',
    created_at           DATETIME DEFAULT (datetime('now')),
    updated_at           DATETIME DEFAULT (datetime('now')),
    UNIQUE(business_id, name)
);
CREATE INDEX IF NOT EXISTS idx_leads_business ON leads(business_id);
CREATE INDEX IF NOT EXISTS idx_leads_stage ON leads(pipeline_stage);

CREATE TABLE IF NOT EXISTS lead_notes (
    id         TEXT PRIMARY KEY,
    lead_id    TEXT NOT NULL REFERENCES leads(id),
    note       TEXT NOT NULL,
    created_at DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_lead_notes_lead ON lead_notes(lead_id);

CREATE TABLE IF NOT EXISTS dm_flows (
    id            TEXT PRIMARY KEY,
    business_id   TEXT NOT NULL REFERENCES businesses(id),
    name          TEXT NOT NULL,
    "trigger"     TEXT NOT NULL,
    script        TEXT NOT NULL DEFAULT '[]',
    status        TEXT DEFAULT 'draft' CHECK(status IN ('draft','active')),
    success_count INTEGER DEFAULT 0,
    created_at    DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_flows_business ON dm_flows(business_id);
CREATE INDEX IF NOT EXISTS idx_flows_active ON dm_flows(status) WHERE status = 'active';

CREATE TABLE IF NOT EXISTS brain_memory (
    id          TEXT PRIMARY KEY,
    business_id TEXT NOT NULL REFERENCES businesses(id),
    label       TEXT NOT NULL,
    content     TEXT NOT NULL,
    created_at  DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_memory_business ON brain_memory(business_id);

CREATE TABLE IF NOT EXISTS personas (
    id                 TEXT PRIMARY KEY,
    business_id        TEXT NOT NULL REFERENCES businesses(id),
    name               TEXT NOT NULL,
    description        TEXT NOT NULL,
    motivations        TEXT,
    pain_points        TEXT,
    preferred_channels TEXT,
    funnel_stage       TEXT,
    created_at         DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_personas_business ON personas(business_id);

CREATE TABLE IF NOT EXISTS resource_assets (
    id          TEXT PRIMARY KEY,
    business_id TEXT NOT NULL REFERENCES businesses(id),
    asset_type  TEXT NOT NULL,
    label       TEXT NOT NULL,
    url         TEXT,
    status      TEXT DEFAULT 'pending',
    created_at  DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_assets_business ON resource_assets(business_id);

CREATE TABLE IF NOT EXISTS onboarding_sessions (
    id                 TEXT PRIMARY KEY,
    business_id        TEXT NOT NULL REFERENCES businesses(id),
    current_step       INTEGER DEFAULT 0,
    total_steps        INTEGER DEFAULT 7,
    responses          TEXT DEFAULT '{}',
    completed          INTEGER DEFAULT 0 CHECK(completed IN (0, 1)),
    questions_answered INTEGER DEFAULT 0,
    created_at         DATETIME DEFAULT (datetime('now')),
    updated_at         DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_sessions_business ON onboarding_sessions(business_id);
`
