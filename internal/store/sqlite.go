package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sma-bench/internal/bench"
	"sma-bench/internal/config"
)

// Store 封装 SQLite 连接，保存历史基准结果。
type Store struct {
	db *sql.DB
}

// NewSQLite 根据配置初始化 SQLite 存储并完成建表。
func NewSQLite(cfg config.DatabaseConfig) (*Store, error) {
	dsn := cfg.Path
	if cfg.InMemory {
		dsn = ":memory:"
	} else {
		if err := ensureDir(filepath.Dir(cfg.Path)); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", dsn))
	if err != nil {
		return nil, fmt.Errorf("打开 SQLite 数据库失败: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("设置 SQLite WAL 模式失败: %w", err)
	}

	if _, err := conn.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("设置 SQLite 同步级别失败: %w", err)
	}

	store := &Store{db: conn}
	if err := store.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return store, nil
}

// DB 返回底层 *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close 关闭数据库连接。
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRows 将一批基准结果写入同一事务。
func (s *Store) SaveRows(ctx context.Context, rows []bench.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO bench_results (strategy, n_ticks, seconds, signals, ops, peak_mib, run_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("准备插入语句失败: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			row.Strategy, row.NTicks, row.Seconds, row.Signals,
			int64(row.Ops), row.PeakMiB, row.RunAt.UTC().Format(time.RFC3339),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("写入基准结果失败: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交基准结果失败: %w", err)
	}
	return nil
}

// RecentRows 按写入顺序倒序返回最近 limit 条基准结果。
func (s *Store) RecentRows(ctx context.Context, limit int) ([]bench.Row, error) {
	if limit <= 0 {
		limit = 50
	}

	result, err := s.db.QueryContext(ctx, `
SELECT strategy, n_ticks, seconds, signals, ops, peak_mib, run_at
FROM bench_results
ORDER BY id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("查询基准结果失败: %w", err)
	}
	defer result.Close()

	var rows []bench.Row
	for result.Next() {
		var row bench.Row
		var ops int64
		var runAt string
		if err := result.Scan(&row.Strategy, &row.NTicks, &row.Seconds, &row.Signals, &ops, &row.PeakMiB, &runAt); err != nil {
			return nil, fmt.Errorf("扫描基准结果失败: %w", err)
		}
		row.Ops = uint64(ops)
		if ts, err := time.Parse(time.RFC3339, runAt); err == nil {
			row.RunAt = ts
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("遍历基准结果失败: %w", err)
	}

	return rows, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS bench_results (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    strategy TEXT    NOT NULL,
    n_ticks  INTEGER NOT NULL,
    seconds  REAL    NOT NULL,
    signals  INTEGER NOT NULL,
    ops      INTEGER NOT NULL,
    peak_mib REAL    NOT NULL,
    run_at   TEXT    NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("初始化结果表失败: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("创建目录 %q 失败: %w", path, err)
	}
	return nil
}
