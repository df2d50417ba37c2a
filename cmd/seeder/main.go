package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/config"
	"github.com/mauv0809/fairway-oom/internal/database"
	"github.com/mauv0809/fairway-oom/internal/ledger"
	"github.com/mauv0809/fairway-oom/internal/oom"
	"github.com/mauv0809/fairway-oom/internal/society"
	"github.com/spf13/cobra"
)

var (
	numMembers int
	numEvents  int
	year       int
	seed       uint64
	publish    bool
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Fill a society with fake members, events and scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.SocietyID == "" {
			cfg.SocietyID = "demo-society"
		}
		db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer teardown()

		s := &seeder{
			faker:     gofakeit.New(seed),
			store:     society.New(db),
			writer:    ledger.NewWriter(ledger.NewSQLDocumentStore(db)),
			societyID: cfg.SocietyID,
		}
		return s.run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().IntVar(&numMembers, "members", 24, "Number of members to create")
	rootCmd.Flags().IntVar(&numEvents, "events", 8, "Number of events to create")
	rootCmd.Flags().IntVar(&year, "year", time.Now().Year(), "Season the events are dated in")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed, 0 picks one")
	rootCmd.Flags().BoolVar(&publish, "publish", true, "Publish the results of every event")
}

type seeder struct {
	faker     *gofakeit.Faker
	store     society.SocietyStore
	writer    *ledger.Writer
	societyID string
}

func (s *seeder) run(ctx context.Context) error {
	log.Info("Starting database seeder...", "society", s.societyID, "members", numMembers, "events", numEvents)
	startTime := time.Now()

	roster := make(oom.Roster, 0, numMembers)
	for i := 0; i < numMembers; i++ {
		handicap := float64(s.faker.IntRange(0, 360)) / 10
		m, err := s.store.AddMember(ctx, s.societyID, s.faker.Name(), &handicap)
		if err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
		roster = append(roster, m)
	}
	log.Info("Inserted members", "count", len(roster))

	for i := 0; i < numEvents; i++ {
		mode := oom.ModeStableford
		if i%4 == 3 {
			mode = oom.ModeStrokeplay
		}
		date := time.Date(year, time.Month(3+i%9), s.faker.IntRange(1, 28), 0, 0, 0, 0, time.UTC)
		event, err := s.store.CreateEvent(ctx, oom.Event{
			SocietyID:   s.societyID,
			Name:        fmt.Sprintf("%s %s", s.faker.City(), eventKind(mode)),
			Date:        date.Format("2006-01-02"),
			ScoringMode: mode,
			OOMEligible: i%5 != 4,
		})
		if err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}

		for _, m := range roster {
			// Not everybody plays every event.
			if s.faker.Float64Range(0, 1) < 0.3 {
				continue
			}
			if err := s.store.RecordScore(ctx, s.societyID, event.ID, s.score(m.ID, mode)); err != nil {
				return fmt.Errorf("failed to record score: %w", err)
			}
		}

		if !publish {
			continue
		}
		full, err := s.store.GetEvent(ctx, s.societyID, event.ID)
		if err != nil {
			return err
		}
		written, err := s.writer.Publish(ctx, s.societyID, full, roster)
		if err != nil {
			return err
		}
		if written > 0 {
			if err := s.store.SetEventStatus(ctx, s.societyID, event.ID, oom.StatusPublished); err != nil {
				return err
			}
		}
		log.Info("Seeded event", "eventID", event.ID, "name", event.Name, "results", written)
	}

	log.Info("Seeding finished", "duration", time.Since(startTime))
	return nil
}

func (s *seeder) score(memberID string, mode oom.ScoringMode) oom.ScoreRecord {
	if mode == oom.ModeStableford {
		points := float64(s.faker.IntRange(22, 44))
		return oom.ScoreRecord{MemberID: memberID, Stableford: &points}
	}
	gross := float64(s.faker.IntRange(72, 110))
	net := gross - float64(s.faker.IntRange(0, 28))
	return oom.ScoreRecord{MemberID: memberID, Gross: &gross, Net: &net}
}

func eventKind(mode oom.ScoringMode) string {
	if mode == oom.ModeStrokeplay {
		return "Medal"
	}
	return "Stableford"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Seeding failed: %s\n", err)
		os.Exit(1)
	}
}
