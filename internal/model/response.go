package model

// MessageResponse is the {msg} body used for every expected failure.
type MessageResponse struct {
	Msg string `json:"msg"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
