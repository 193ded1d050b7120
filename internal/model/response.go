package model

// Response is a generic struct for API responses
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}

// LookupResult is the data of a /weather response.
type LookupResult struct {
	Current  *CurrentView `json:"current,omitempty"`
	Forecast []DailyView  `json:"forecast,omitempty"`
	Recent   []string     `json:"recent,omitempty"`
}
