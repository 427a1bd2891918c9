// Package dto defines data transfer objects for the series HTTP API.
package dto

// SeriesItem represents a series in the API response.
type SeriesItem struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Unit     string `json:"unit,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// CreateSeriesRequest はPOST /series のリクエストボディです。
type CreateSeriesRequest struct {
	Key      string `json:"key" binding:"required"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Timezone string `json:"timezone"`
	SortKey  int    `json:"sort_key"`
}

// PointInput は追加する点1つです。time にはepochミリ秒または日付文字列を指定します。
type PointInput struct {
	Time  any     `json:"time"`
	Value float64 `json:"value"`
}

// AppendPointsRequest はPOST /series/:key/points のリクエストボディです。
type AppendPointsRequest struct {
	Points []PointInput `json:"points" binding:"required"`
}

// PointItem は点のレスポンスDTOです。
type PointItem struct {
	Time  string  `json:"time"`  // RFC3339 (UTC)
	Value float64 `json:"value"` // 観測値
}

// ErrorResponse はエラー時のレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
