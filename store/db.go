package store

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx"
	"github.com/mtharp/twentyone/gann"
	deep "github.com/patrikeh/go-deep"
)

//go:embed schema.sql
var schema string

const (
	stmtEpoch = "insert_epoch"

	batchSize  = 250
	flushDelay = time.Second
	queueSize  = 1000
)

// DB records training runs. Epoch rows are queued and written in batches.
type DB struct {
	*pgx.ConnPool
	epochs chan epochRow
	flush  chan chan error
	done   chan struct{}
	once   sync.Once
}

type epochRow struct {
	RunID string
	gann.EpochStats
}

// RunParams are the settings a training run was started with.
type RunParams struct {
	Population   int
	Hidden       int
	Epochs       int
	MutationRate float64
	Seed         int64
}

// Connect opens a pool. With migrate set the tables are created first, since
// every pooled connection prepares statements against them.
func Connect(url string, migrate bool) (*DB, error) {
	cfg, err := pgx.ParseConnectionString(url)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := migrateSchema(cfg); err != nil {
			return nil, fmt.Errorf("migrating: %w", err)
		}
	}
	pool, err := pgx.NewConnPool(pgx.ConnPoolConfig{
		ConnConfig: cfg,
		AfterConnect: func(conn *pgx.Conn) error {
			_, err := conn.Prepare(stmtEpoch, "INSERT INTO epochs (run_id, epoch, win_rate, ave_bank, ave_reward, cost, mutation_rate) VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (run_id, epoch) DO NOTHING")
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	d := &DB{
		ConnPool: pool,
		epochs:   make(chan epochRow, queueSize),
		flush:    make(chan chan error),
		done:     make(chan struct{}),
	}
	go d.epochUpdater()
	return d, nil
}

func migrateSchema(cfg pgx.ConnConfig) error {
	conn, err := pgx.Connect(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err = conn.ExecEx(ctx, schema, nil)
	return err
}

func (db *DB) StartRun(ctx context.Context, p RunParams) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	_, err = db.ExecEx(ctx, "INSERT INTO runs (id, population, hidden, epochs, mutation_rate, seed) VALUES ($1, $2, $3, $4, $5, $6)", nil,
		id.String(), p.Population, p.Hidden, p.Epochs, p.MutationRate, p.Seed)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return id.String(), nil
}

// RecordEpoch queues an epoch for writing. It never blocks; if the queue is
// full the row is dropped.
func (db *DB) RecordEpoch(runID string, es gann.EpochStats) {
	select {
	case db.epochs <- epochRow{runID, es}:
	default:
		log.Printf("warning: epoch queue full, dropping epoch %d", es.Epoch)
	}
}

// Flush writes everything queued so far.
func (db *DB) Flush(ctx context.Context) error {
	ch := make(chan error, 1)
	select {
	case db.flush <- ch:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending epochs and closes the pool.
func (db *DB) Close() {
	db.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Flush(ctx); err != nil {
			log.Printf("error: flushing epochs: %s", err)
		}
		close(db.done)
		db.ConnPool.Close()
	})
}

func (db *DB) epochUpdater() {
	var rows []epochRow
	t := time.NewTimer(time.Hour)
	send := func() error {
		if len(rows) == 0 {
			return nil
		}
		err := db.sendBatch(rows)
		rows = rows[:0]
		return err
	}
	for {
		select {
		case <-db.done:
			t.Stop()
			return
		case <-t.C:
			if err := send(); err != nil {
				log.Printf("error: recording epochs: %s", err)
			}
			t.Reset(time.Hour)
		case ch := <-db.flush:
			// drain whatever is already queued
			for len(db.epochs) > 0 {
				rows = append(rows, <-db.epochs)
			}
			ch <- send()
		case item := <-db.epochs:
			rows = append(rows, item)
			if len(rows) >= batchSize {
				if err := send(); err != nil {
					log.Printf("error: recording epochs: %s", err)
				}
				t.Reset(time.Hour)
			} else {
				t.Reset(flushDelay)
			}
		}
	}
}

func (db *DB) sendBatch(rows []epochRow) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	b := db.BeginBatch()
	for _, item := range rows {
		b.Queue(stmtEpoch, []interface{}{item.RunID, item.Epoch, item.WinRate, item.AveBank, item.AveReward, item.Cost, item.MutationRate}, nil, nil)
	}
	if err := b.Send(ctx, nil); err != nil {
		b.Close()
		return err
	}
	if err := b.Close(); err != nil {
		return err
	}
	if d := time.Since(start); d > 100*time.Millisecond {
		log.Printf("warning: recording %d epochs took %s", len(rows), d)
	}
	return nil
}

// SaveNet stores a network snapshot for the run.
func (db *DB) SaveNet(ctx context.Context, runID string, epoch int, cost float64, nn *deep.Neural) error {
	blob, err := nn.Marshal()
	if err != nil {
		return err
	}
	_, err = db.ExecEx(ctx, "INSERT INTO nets (run_id, epoch, cost, blob) VALUES ($1, $2, $3, $4)", nil,
		runID, epoch, cost, blob)
	return err
}

// BestNets loads up to count networks across all runs, highest cost first.
func (db *DB) BestNets(ctx context.Context, count int) ([]*deep.Neural, error) {
	rows, err := db.QueryEx(ctx, "SELECT blob FROM nets ORDER BY cost DESC, id LIMIT $1", nil, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ret []*deep.Neural
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		nn, err := deep.Unmarshal(blob)
		if err != nil {
			return nil, err
		}
		ret = append(ret, nn)
	}
	return ret, rows.Err()
}
