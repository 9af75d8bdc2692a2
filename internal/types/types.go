// Package types provides common type definitions for the FlipperZap scan service.
package types

// ScanStatus represents the lifecycle state of a scan
type ScanStatus string

const (
	// ScanStatusPending represents a scan accepted but not yet analyzed
	ScanStatusPending ScanStatus = "pending"
	// ScanStatusProcessing represents a scan whose analysis is in flight
	ScanStatusProcessing ScanStatus = "processing"
	// ScanStatusCompleted represents a scan with a finished analysis
	ScanStatusCompleted ScanStatus = "completed"
	// ScanStatusFailed represents a scan whose analysis failed
	ScanStatusFailed ScanStatus = "failed"
)

// Terminal reports whether the status is a terminal lifecycle state.
// A scan never leaves completed or failed.
func (s ScanStatus) Terminal() bool {
	return s == ScanStatusCompleted || s == ScanStatusFailed
}

// ListingStatus represents the lifecycle state of a marketplace listing
type ListingStatus string

const (
	// ListingStatusDraft represents a listing not yet published anywhere
	ListingStatusDraft ListingStatus = "draft"
	// ListingStatusActive represents a listing published on a marketplace
	ListingStatusActive ListingStatus = "active"
	// ListingStatusSold represents a listing that sold
	ListingStatusSold ListingStatus = "sold"
	// ListingStatusCancelled represents a listing withdrawn by the user
	ListingStatusCancelled ListingStatus = "cancelled"
)

// ToyCondition represents the graded condition of a scanned toy
type ToyCondition string

const (
	ConditionMint      ToyCondition = "mint"
	ConditionExcellent ToyCondition = "excellent"
	ConditionGood      ToyCondition = "good"
	ConditionFair      ToyCondition = "fair"
	ConditionPoor      ToyCondition = "poor"
)

// Valid reports whether the condition is one of the known grades.
func (c ToyCondition) Valid() bool {
	switch c {
	case ConditionMint, ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Marketplace identifies a supported resale marketplace
type Marketplace string

const (
	MarketplaceEbay       Marketplace = "ebay"
	MarketplaceAmazon     Marketplace = "amazon"
	MarketplaceFacebook   Marketplace = "facebook"
	MarketplaceCraigslist Marketplace = "craigslist"
	MarketplaceWordpress  Marketplace = "wordpress"
)

// SupportedMarketplaces returns the fixed set reported by the connections endpoint.
func SupportedMarketplaces() []Marketplace {
	return []Marketplace{
		MarketplaceEbay,
		MarketplaceAmazon,
		MarketplaceFacebook,
		MarketplaceCraigslist,
		MarketplaceWordpress,
	}
}

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
