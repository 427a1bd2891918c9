// Package dto defines data transfer objects for the upstream time series API.
package dto

import "encoding/json"

// PointsResponse represents the JSON response from the upstream points endpoint.
// Datetime may be a date string or epoch milliseconds.
type PointsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Key     string `json:"key"`
	Values  []struct {
		Datetime json.RawMessage `json:"datetime"`
		Value    string          `json:"value"`
	} `json:"values"`
}
