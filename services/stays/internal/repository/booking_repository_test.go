package repository

import (
	"testing"

	"github.com/diagnosis/dalmatia-stays/services/stays/internal/domain"
)

func TestParseStatus(t *testing.T) {
	st, err := parseStatus("confirmed")
	if err != nil || st != domain.BookingConfirmed {
		t.Fatalf("Expected confirmed, got %q (%v)", st, err)
	}
	if _, err := parseStatus("pending"); err == nil {
		t.Fatal("Expected error for unknown status")
	}
}
