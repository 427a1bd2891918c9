// Package dto defines data transfer objects for the timeaxis HTTP API.
package dto

// InferRequest はPOST /axis/infer のリクエストボディです。
// values には epoch ミリ秒または日付文字列を混在させて指定できます。
type InferRequest struct {
	Values   []any    `json:"values"`
	Unit     string   `json:"unit"`
	Timezone string   `json:"timezone"`
	Width    *float64 `json:"width"`
}

// IntervalItem は単位と個数の組です。
type IntervalItem struct {
	Unit  string `json:"unit"`
	Count int    `json:"count"`
}

// DomainItem はepochミリ秒の表示範囲です。
type DomainItem struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// AxisResponse は軸レイアウトのレスポンスDTOです。
type AxisResponse struct {
	DataInterval IntervalItem `json:"data_interval"`
	TickInterval IntervalItem `json:"tick_interval"`
	MaxTicks     int          `json:"max_ticks"`
	ShowTicks    bool         `json:"show_ticks"`
	Domain       DomainItem   `json:"domain"`
	Timezone     string       `json:"timezone"`
	LabelSample  string       `json:"label_sample"`
}

// ErrorResponse はエラー時のレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
