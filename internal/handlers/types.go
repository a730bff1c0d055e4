package handlers

type AnalyzeRequest struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HistoryResponse struct {
	Records interface{} `json:"records"`
	Count   int         `json:"count"`
}
