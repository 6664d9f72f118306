package test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"sellerdash/bid"
	"sellerdash/dispute"
	"sellerdash/earnings"
	"sellerdash/test/infra"
)

var (
	flDuration    = flag.Duration("duration", 30*time.Second, "how long to run stress")
	flConcurrency = flag.Int("concurrency", 8, "number of concurrent actors")
	flSeed        = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flDSN         = flag.String("dsn", "", "existing Postgres DSN to reuse (avoids Docker)")
)

// TestResolutionConcurrency hammers the dispute resolution flow with
// concurrent operators and reporters against a real Postgres, then checks the
// persisted invariants: resolved disputes carry an outcome and refund,
// approved refunds match the seller's bid, denied refunds are zero.
func TestResolutionConcurrency(t *testing.T) {
	flag.Parse()
	seed := *flSeed
	rng := rand.New(rand.NewSource(seed))

	var (
		pgC        *infra.PGContainer
		dsn        string
		err        error
		usedShared bool
	)
	ctx, cancel := context.WithTimeout(context.Background(), *flDuration+60*time.Second)
	defer cancel()

	switch {
	case *flDSN != "":
		dsn = *flDSN
		usedShared = true
		pgC = &infra.PGContainer{}
	case os.Getenv("SELLERDASH_TEST_PG_DSN") != "":
		dsn = os.Getenv("SELLERDASH_TEST_PG_DSN")
		usedShared = true
		pgC = &infra.PGContainer{}
	default:
		if dockerAvailable(ctx) {
			pgC, dsn, err = infra.StartPostgres16(ctx, "")
			if err != nil {
				t.Fatalf("start postgres: %v", err)
			}
		} else {
			dsn, err = infra.InitLocalDatabase(ctx)
			if err != nil {
				t.Skipf("no Docker and no local PostgreSQL: %v", err)
			}
			pgC = &infra.PGContainer{}
		}
	}
	defer pgC.Terminate(context.Background())

	pool, teardown, err := infra.ApplyMigrations(ctx, dsn, usedShared)
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	defer pool.Close()
	defer func() {
		if err := teardown(context.Background()); err != nil {
			t.Logf("teardown warning: %v", err)
		}
	}()

	seedData := mustSeed(t, ctx, pool, rng, *flConcurrency*4)

	bidService := bid.NewService(bid.NewRepository(pool))
	disputeService := dispute.NewService(dispute.NewRepository(pool), bidService)
	earningsService := earnings.NewService(earnings.NewRepository(pool), disputeService)

	g, ctx2 := errgroup.WithContext(ctx)
	stop := make(chan struct{})

	decisions := []dispute.Decision{dispute.FavorBuyer, dispute.FavorSeller, dispute.DecisionPartial}

	// operators racing over the seeded disputes
	for i := 0; i < *flConcurrency; i++ {
		workerSeed := rng.Int63()
		g.Go(func() error {
			local := rand.New(rand.NewSource(workerSeed))
			for {
				select {
				case <-stop:
					return nil
				case <-ctx2.Done():
					return ctx2.Err()
				default:
				}
				disputeID := seedData.disputeIDs[local.Intn(len(seedData.disputeIDs))]
				decision := decisions[local.Intn(len(decisions))]
				_, err := disputeService.SubmitResolution(ctx2, disputeID, decision, "stress resolution", "250")
				if err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("resolve %s: %w", disputeID, err)
				}
			}
		})
	}

	// reporters filing fresh disputes from payment transactions
	g.Go(func() error {
		local := rand.New(rand.NewSource(rng.Int63()))
		for {
			select {
			case <-stop:
				return nil
			case <-ctx2.Done():
				return ctx2.Err()
			default:
			}
			i := local.Intn(len(seedData.txIDs))
			_, err := earningsService.FileReport(ctx2, seedData.sellerIDs[i], seedData.txIDs[i], "stress report")
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("file report: %w", err)
			}
			time.Sleep(50 * time.Millisecond)
		}
	})

	time.Sleep(*flDuration)
	close(stop)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("actors errored: %v (seed=%d)", err, seed)
	}

	checkInvariants(t, ctx, pool, seed)
}

func checkInvariants(t *testing.T, ctx context.Context, pool *pgxpool.Pool, seed int64) {
	t.Helper()
	oracles := []struct {
		name string
		sql  string
	}{
		{
			"resolved_has_outcome",
			`SELECT id FROM disputes WHERE status = 'resolved' AND (outcome IS NULL OR refund_amount IS NULL) LIMIT 1`,
		},
		{
			"approved_refund_matches_bid",
			`SELECT d.id FROM disputes d
			 JOIN bids b ON b.gig_id = d.gig_id AND b.seller_id = d.seller_id
			 WHERE d.outcome = 'approved' AND d.refund_amount <> b.amount_minor::text
			 LIMIT 1`,
		},
		{
			"denied_refund_is_zero",
			`SELECT id FROM disputes WHERE outcome = 'denied' AND refund_amount <> '0' LIMIT 1`,
		},
		{
			"outcome_implies_resolved",
			`SELECT id FROM disputes WHERE outcome IS NOT NULL AND status <> 'resolved' LIMIT 1`,
		},
	}
	for _, o := range oracles {
		var id string
		err := pool.QueryRow(ctx, o.sql).Scan(&id)
		if err == nil {
			t.Errorf("oracle %s failed: first offending row %s (seed=%d)", o.name, id, seed)
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			t.Fatalf("oracle %s query: %v", o.name, err)
		}
	}
}

func dockerAvailable(ctx context.Context) bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	c := exec.CommandContext(ctx, "docker", "info")
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c.Run() == nil
}

type seedIDs struct {
	buyerID    string
	sellerIDs  []string
	gigIDs     []string
	txIDs      []string
	disputeIDs []string
}

func mustSeed(t *testing.T, ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) seedIDs {
	t.Helper()
	var s seedIDs

	if err := pool.QueryRow(ctx, `INSERT INTO users (email, full_name, role) VALUES ($1, 'Stress Buyer', 'buyer') RETURNING id`,
		fmt.Sprintf("buyer%d@example.com", rng.Int63())).Scan(&s.buyerID); err != nil {
		t.Fatalf("seed buyer: %v", err)
	}

	for i := 0; i < n; i++ {
		var sellerID, gigID, txID, disputeID string
		if err := pool.QueryRow(ctx, `INSERT INTO users (email, full_name, role) VALUES ($1, 'Stress Seller', 'seller') RETURNING id`,
			fmt.Sprintf("seller%d-%d@example.com", i, rng.Int63())).Scan(&sellerID); err != nil {
			t.Fatalf("seed seller: %v", err)
		}
		if err := pool.QueryRow(ctx, `INSERT INTO gigs (seller_id, title) VALUES ($1, 'Land Title Verification') RETURNING id`,
			sellerID).Scan(&gigID); err != nil {
			t.Fatalf("seed gig: %v", err)
		}
		amount := int64(1000 + rng.Intn(100000))
		if _, err := pool.Exec(ctx, `INSERT INTO bids (gig_id, seller_id, amount_minor) VALUES ($1, $2, $3)`,
			gigID, sellerID, amount); err != nil {
			t.Fatalf("seed bid: %v", err)
		}
		if err := pool.QueryRow(ctx, `
			INSERT INTO transactions (seller_id, gig_id, buyer_id, kind, status, description, counterparty, amount_minor)
			VALUES ($1, $2, $3, 'payment', 'settled', 'Payment for Land Title Verification', 'Stress Buyer', $4)
			RETURNING id`, sellerID, gigID, s.buyerID, amount).Scan(&txID); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
		if err := pool.QueryRow(ctx, `
			INSERT INTO disputes (gig_id, buyer_id, seller_id, title, description, amount_minor)
			VALUES ($1, $2, $3, 'Stress dispute', 'seeded case', $4)
			RETURNING id`, gigID, s.buyerID, sellerID, amount).Scan(&disputeID); err != nil {
			t.Fatalf("seed dispute: %v", err)
		}
		s.sellerIDs = append(s.sellerIDs, sellerID)
		s.gigIDs = append(s.gigIDs, gigID)
		s.txIDs = append(s.txIDs, txID)
		s.disputeIDs = append(s.disputeIDs, disputeID)
	}
	return s
}
