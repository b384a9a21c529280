package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/solos99999/txt2voice/internal/logger"
)

// Record 一次合成的历史记录。
type Record struct {
	ID         int64
	Engine     string
	Voice      string
	Text       string
	FilePath   string
	DurationMs int64
	SampleRate int
	CreatedAt  time.Time
}

// Store 基于 SQLite 的合成历史存储。
type Store struct {
	db *sql.DB
}

// Open 打开或创建历史数据库。
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建数据库目录失败: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	// 设置 WAL 模式（更好的并发性能）
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("设置 WAL 模式失败: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS synthesis_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		engine TEXT NOT NULL,
		voice TEXT NOT NULL,
		text TEXT NOT NULL,
		file_path TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		sample_rate INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_history_created ON synthesis_history(created_at DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化历史表失败: %w", err)
	}

	logger.Infof("[history] 历史数据库已打开: %s", dbPath)
	return &Store{db: db}, nil
}

// Add 追加一条合成记录。
func (s *Store) Add(r Record) error {
	_, err := s.db.Exec(
		`INSERT INTO synthesis_history (engine, voice, text, file_path, duration_ms, sample_rate)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Engine, r.Voice, r.Text, r.FilePath, r.DurationMs, r.SampleRate,
	)
	if err != nil {
		return fmt.Errorf("写入合成历史失败: %w", err)
	}
	return nil
}

// Recent 返回最近 n 条记录，按时间倒序。
func (s *Store) Recent(n int) ([]Record, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.Query(
		`SELECT id, engine, voice, text, file_path, duration_ms, sample_rate, created_at
		 FROM synthesis_history ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("查询合成历史失败: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Engine, &r.Voice, &r.Text, &r.FilePath,
			&r.DurationMs, &r.SampleRate, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("读取合成历史失败: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close 关闭数据库。
func (s *Store) Close() error {
	return s.db.Close()
}
