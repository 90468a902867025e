package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInvestmentsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_investments_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no investments migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE investment_status AS ENUM",
		"CREATE TYPE payment_status AS ENUM",
		"CREATE TYPE payment_processor AS ENUM",
		"CREATE TABLE IF NOT EXISTS investments",
		"FOREIGN KEY (opportunity_id) REFERENCES opportunities(id) ON DELETE CASCADE",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (amount > 0)",
		"DROP TABLE IF EXISTS investments",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProcessedEventsMigrationContainsUniqueGate(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_processed_webhook_events_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no processed events migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS processed_webhook_events",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_processed_events_processor_event_id",
		"ON processed_webhook_events (processor, event_id)",
		"DROP TABLE IF EXISTS processed_webhook_events",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
