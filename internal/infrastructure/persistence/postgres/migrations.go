// Package postgres implements the PostgreSQL persistence layer for the
// FinEdu backend.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS AND AVATARS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users and avatars tables
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    display_name VARCHAR(100) NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

-- One avatar per user. Achievements and inventory are JSONB: the engine
-- always rewrites the whole snapshot, so child tables would buy nothing.
CREATE TABLE IF NOT EXISTS avatars (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    xp INTEGER NOT NULL DEFAULT 0,
    health INTEGER NOT NULL DEFAULT 100,
    streak INTEGER NOT NULL DEFAULT 0,
    max_streak INTEGER NOT NULL DEFAULT 0,
    total_lessons_completed INTEGER NOT NULL DEFAULT 0,
    total_tasks_completed INTEGER NOT NULL DEFAULT 0,
    total_games_played INTEGER NOT NULL DEFAULT 0,
    achievements JSONB NOT NULL DEFAULT '[]'::jsonb,
    inventory JSONB NOT NULL DEFAULT '[]'::jsonb,
    last_activity_date TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_health CHECK (health >= 0 AND health <= 100),
    CONSTRAINT valid_streak CHECK (streak >= 0),
    CONSTRAINT valid_max_streak CHECK (max_streak >= streak)
);

-- Leaderboard fallback query reads straight from this index.
CREATE INDEX IF NOT EXISTS idx_avatars_xp ON avatars(xp DESC);
CREATE INDEX IF NOT EXISTS idx_avatars_user_id ON avatars(user_id);
`

const migration001Down = `
DROP TABLE IF EXISTS avatars;
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE TASKS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create tasks table
-- Version: 002

CREATE TABLE IF NOT EXISTS tasks (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    priority VARCHAR(10) NOT NULL DEFAULT 'medium',
    xp_reward INTEGER NOT NULL DEFAULT 15,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    due_date TIMESTAMP WITH TIME ZONE,
    completed_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_priority CHECK (priority IN ('low', 'medium', 'high')),
    CONSTRAINT valid_xp_reward CHECK (xp_reward > 0)
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
CREATE INDEX IF NOT EXISTS idx_tasks_user_completed ON tasks(user_id, completed);
CREATE INDEX IF NOT EXISTS idx_tasks_user_created ON tasks(user_id, created_at DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS tasks;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE CONTENT CATALOG
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create lesson and game catalog tables with seed content
-- Version: 003

CREATE TABLE IF NOT EXISTS lessons (
    id VARCHAR(64) PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    category VARCHAR(30) NOT NULL,
    xp_reward INTEGER NOT NULL DEFAULT 10,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_category CHECK (category IN ('budgeting', 'saving', 'investing', 'credit', 'taxes')),
    CONSTRAINT valid_lesson_reward CHECK (xp_reward > 0)
);

CREATE INDEX IF NOT EXISTS idx_lessons_sort_order ON lessons(sort_order);

CREATE TABLE IF NOT EXISTS games (
    id VARCHAR(64) PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    xp_reward INTEGER NOT NULL DEFAULT 20,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_game_reward CHECK (xp_reward > 0)
);

-- Seed the starter catalog. Idempotent so re-running on a restored
-- database is safe.
INSERT INTO lessons (id, title, category, xp_reward, sort_order) VALUES
    ('lesson-budget-101', 'Что такое бюджет', 'budgeting', 10, 1),
    ('lesson-income-expenses', 'Доходы и расходы', 'budgeting', 10, 2),
    ('lesson-emergency-fund', 'Подушка безопасности', 'saving', 10, 3),
    ('lesson-deposits', 'Как работают депозиты', 'saving', 10, 4),
    ('lesson-compound-interest', 'Сложный процент', 'investing', 10, 5),
    ('lesson-stocks-bonds', 'Акции и облигации', 'investing', 10, 6),
    ('lesson-credit-basics', 'Кредиты: за и против', 'credit', 10, 7),
    ('lesson-taxes-101', 'Налоги для начинающих', 'taxes', 10, 8)
ON CONFLICT (id) DO NOTHING;

INSERT INTO games (id, title, xp_reward) VALUES
    ('game-budget-sim', 'Симулятор бюджета', 20),
    ('game-invest-quiz', 'Инвест-викторина', 20),
    ('game-shop-smart', 'Умный покупатель', 20)
ON CONFLICT (id) DO NOTHING;
`

const migration003Down = `
DROP TABLE IF EXISTS games;
DROP TABLE IF EXISTS lessons;
`
