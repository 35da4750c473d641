package dto

type AdjustRequest struct {
	Item string `json:"item"`
	Qty  int64  `json:"qty"`
}

type AdjustCommandRequest struct {
	Op   string `json:"op"`
	Item string `json:"item"`
	Qty  int64  `json:"qty"`
}

type FileRequest struct {
	Path string `json:"path"`
}

type QuantityResponse struct {
	Item     string `json:"item"`
	Quantity int64  `json:"quantity"`
}

type LoadResponse struct {
	Code  string `json:"code"`
	Items int    `json:"items"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
