package dto

type PredictResponse struct {
	Condition   string  `json:"condition"`
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
	Risk        string  `json:"risk"`
	Percent     string  `json:"percent"`
	Timestamp   string  `json:"timestamp"`
}

// PageResponse is the minimal descriptor the page routes render;
// layout and styling live with the browser client.
type PageResponse struct {
	Page  string `json:"page"`
	Title string `json:"title"`
}
