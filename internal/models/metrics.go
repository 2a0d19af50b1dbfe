package models

import "time"

// SystemMetrics is a lightweight snapshot of runtime instrumentation.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	StoreOperations          uint64    `json:"storeOperations"`
	StoreErrors              uint64    `json:"storeErrors"`
	StoreFallbacks           uint64    `json:"storeFallbacks"`
	Redemptions              uint64    `json:"redemptions"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
