package types

import "testing"

func TestScanStatusTerminal(t *testing.T) {
	tests := []struct {
		status   ScanStatus
		terminal bool
	}{
		{ScanStatusPending, false},
		{ScanStatusProcessing, false},
		{ScanStatusCompleted, true},
		{ScanStatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("Terminal(%s) = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestToyConditionValid(t *testing.T) {
	for _, c := range []ToyCondition{ConditionMint, ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor} {
		if !c.Valid() {
			t.Errorf("expected %s to be valid", c)
		}
	}

	for _, c := range []ToyCondition{"", "new", "MINT", "like-new"} {
		if c.Valid() {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}

func TestSupportedMarketplaces(t *testing.T) {
	marketplaces := SupportedMarketplaces()
	if len(marketplaces) != 5 {
		t.Fatalf("expected 5 marketplaces, got %d", len(marketplaces))
	}
	if marketplaces[0] != MarketplaceEbay {
		t.Errorf("expected ebay first, got %s", marketplaces[0])
	}
}

func TestServiceErrorMessage(t *testing.T) {
	err := &ServiceError{Code: "SCAN_NOT_FOUND", Message: "scan not found"}
	if err.Error() != "scan not found" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}
