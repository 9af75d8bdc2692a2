package service

// Notifier delivers realtime updates to a user's connected clients. The
// WebSocket hub implements it; NopNotifier serves tests and headless runs.
type Notifier interface {
	SendScanUpdate(userID, scanID, status string, data interface{})
	SendListingUpdate(userID, listingID, status string, data interface{})
}

// NopNotifier drops all notifications
type NopNotifier struct{}

func (NopNotifier) SendScanUpdate(userID, scanID, status string, data interface{})       {}
func (NopNotifier) SendListingUpdate(userID, listingID, status string, data interface{}) {}
