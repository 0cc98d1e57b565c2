package sqlite

import "database/sql"

// schema sets up the database tables. It runs on startup to ensure tables exist.
// Foreign keys have no ON DELETE action: the store removes dependent rows
// explicitly, so a missed cleanup surfaces as a constraint error.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS children (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    birth_date TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS words (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    child_id INTEGER NOT NULL,
    word TEXT,
    signed INTEGER NOT NULL DEFAULT 0,
    signed_date TEXT,
    verbal INTEGER NOT NULL DEFAULT 0,
    verbal_date TEXT,
    actual_pronunciation TEXT,
    notes TEXT,
    learning_source TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (child_id) REFERENCES children(id)
);

CREATE TABLE IF NOT EXISTS phrases (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    child_id INTEGER NOT NULL,
    phrase TEXT,
    date_said TEXT,
    funny_rating TEXT,
    cute_rating TEXT,
    learning_source TEXT,
    notes TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (child_id) REFERENCES children(id)
);

CREATE TABLE IF NOT EXISTS songs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    child_id INTEGER NOT NULL,
    song_title TEXT,
    date_first_sang TEXT,
    source TEXT,
    notes TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (child_id) REFERENCES children(id)
);

CREATE TABLE IF NOT EXISTS letters (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    child_id INTEGER NOT NULL,
    letters TEXT,
    recognized TEXT,
    recognized_date TEXT,
    sound_it_out TEXT,
    sound_it_out_date TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (child_id) REFERENCES children(id)
);

CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL,
    username TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_children_user_id ON children(user_id);
CREATE INDEX IF NOT EXISTS idx_words_child_word ON words(child_id, word);
CREATE INDEX IF NOT EXISTS idx_phrases_child_phrase ON phrases(child_id, phrase);
CREATE INDEX IF NOT EXISTS idx_songs_child_title ON songs(child_id, song_title);
CREATE INDEX IF NOT EXISTS idx_letters_child_letters ON letters(child_id, letters);
CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
